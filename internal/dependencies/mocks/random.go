package mocks

import "fmt"

// ScriptedRandom returns a fixed sequence of values for deterministic tests
type ScriptedRandom struct {
	Values []int
	pos    int
	tokens int
}

// NewScriptedRandom creates a ScriptedRandom that yields the given values in order
func NewScriptedRandom(values ...int) *ScriptedRandom {
	return &ScriptedRandom{Values: values}
}

// Intn returns the next scripted value, clamped to [0, n)
func (r *ScriptedRandom) Intn(n int) int {
	if len(r.Values) == 0 || n <= 0 {
		return 0
	}
	v := r.Values[r.pos%len(r.Values)]
	r.pos++
	if v >= n {
		v = n - 1
	}
	return v
}

// Token returns a deterministic token, unique per call
func (r *ScriptedRandom) Token(length int) string {
	r.tokens++
	return fmt.Sprintf("tok%04d", r.tokens)
}
