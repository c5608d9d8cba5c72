package game

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/asapbuyco-source/Katika-sub000/internal/dependencies/scheduler"
)

// DicePhase is the round phase of a dice session
type DicePhase string

const (
	DiceWaiting DicePhase = "WAITING" // collecting rolls for the current round
	DiceScored  DicePhase = "SCORED"  // round settled, next round pending
)

// DiceState is the embedded state of a dice session
type DiceState struct {
	Round  int              `json:"round"`
	Scores map[string]int   `json:"scores"` // player id -> round wins
	Rolls  map[string][]int `json:"rolls"`  // player id -> two dice, absent until rolled
	Phase  DicePhase        `json:"phase"`
}

// GridState is the embedded state of a three-in-a-row session.
// Cells hold "", "X" (first-listed player) or "O".
type GridState struct {
	Board [9]string `json:"board"`
}

// RelayState is the embedded state of a board-relay session. The board blob
// is opaque to the server; the acting client is legality-authoritative.
type RelayState struct {
	Board         json.RawMessage `json:"board,omitempty"`
	RemainingTime map[string]int  `json:"remaining_time"`
}

// RelayUpdate is the whitelisted partial update a client may submit for a
// relay session. Fields not present are left untouched.
type RelayUpdate struct {
	Board         json.RawMessage `json:"board,omitempty"`
	Turn          string          `json:"turn,omitempty"`
	Winner        string          `json:"winner,omitempty"`
	RemainingTime map[string]int  `json:"remaining_time,omitempty"`
}

// SessionPlayer is one participant in a session
type SessionPlayer struct {
	Profile        PlayerProfile `json:"profile"`
	Connected      bool          `json:"connected"`
	DisconnectedAt *time.Time    `json:"-"`
}

// Session is one in-progress or just-completed match between two players.
// Owned by the Registry; mutated only through the Orchestrator with mu held.
type Session struct {
	ID          string
	GameType    GameType
	Stake       int
	Players     [2]*SessionPlayer
	CurrentTurn string
	Status      Status
	Winner      string
	EndReason   string
	Settlement  *Settlement

	Dice  *DiceState
	Grid  *GridState
	Relay *RelayState

	Chat         []ChatMessage
	chatLimit    int
	RematchVotes map[string]bool

	CreatedAt   time.Time
	CompletedAt *time.Time

	// diceEpoch invalidates pending delayed round transitions; bumped on
	// every rematch reset so stale callbacks see a mismatch and drop.
	diceEpoch   int
	evictCancel scheduler.CancelFunc

	mu sync.RWMutex
}

// NewSession creates an Active session for the ordered player pair.
// The first-listed player holds the opening turn.
func NewSession(id string, gameType GameType, stake int, playerA, playerB PlayerProfile, chatLimit int) *Session {
	s := &Session{
		ID:       id,
		GameType: gameType,
		Stake:    stake,
		Players: [2]*SessionPlayer{
			{Profile: playerA, Connected: true},
			{Profile: playerB, Connected: true},
		},
		CurrentTurn:  playerA.ID,
		Status:       StatusActive,
		chatLimit:    chatLimit,
		RematchVotes: make(map[string]bool),
		CreatedAt:    time.Now(),
	}
	s.initEmbeddedLocked()
	return s
}

// initEmbeddedLocked installs a fresh embedded state for the session's game
// type. Relay boards stay nil until the first client update supplies one.
func (s *Session) initEmbeddedLocked() {
	s.Dice, s.Grid, s.Relay = nil, nil, nil
	switch s.GameType {
	case GameDice:
		s.Dice = &DiceState{
			Round: 1,
			Scores: map[string]int{
				s.Players[0].Profile.ID: 0,
				s.Players[1].Profile.ID: 0,
			},
			Rolls: make(map[string][]int),
			Phase: DiceWaiting,
		}
	case GameTicTacToe:
		s.Grid = &GridState{}
	default:
		s.Relay = &RelayState{RemainingTime: make(map[string]int)}
	}
}

// isParty reports whether playerID is one of the session's two players
func (s *Session) isParty(playerID string) bool {
	return s.Players[0].Profile.ID == playerID || s.Players[1].Profile.ID == playerID
}

// opponentOf returns the other player's id, or "" for a non-party id
func (s *Session) opponentOf(playerID string) string {
	if s.Players[0].Profile.ID == playerID {
		return s.Players[1].Profile.ID
	}
	if s.Players[1].Profile.ID == playerID {
		return s.Players[0].Profile.ID
	}
	return ""
}

// playerIDs returns both player ids in listed order
func (s *Session) playerIDs() []string {
	return []string{s.Players[0].Profile.ID, s.Players[1].Profile.ID}
}

// playerByID returns the session player for the id, or nil
func (s *Session) playerByID(playerID string) *SessionPlayer {
	if s.Players[0].Profile.ID == playerID {
		return s.Players[0]
	}
	if s.Players[1].Profile.ID == playerID {
		return s.Players[1]
	}
	return nil
}

// markOf returns the grid mark for a player: the first-listed player
// plays "X", the second "O". Empty for non-parties.
func (s *Session) markOf(playerID string) string {
	if s.Players[0].Profile.ID == playerID {
		return "X"
	}
	if s.Players[1].Profile.ID == playerID {
		return "O"
	}
	return ""
}

// appendChatLocked appends to the bounded chat ring, dropping the oldest
// entry once the limit is reached
func (s *Session) appendChatLocked(msg ChatMessage) {
	s.Chat = append(s.Chat, msg)
	if s.chatLimit > 0 && len(s.Chat) > s.chatLimit {
		s.Chat = s.Chat[len(s.Chat)-s.chatLimit:]
	}
}

// snapshotLocked builds the full session snapshot sent to both clients.
// Caller holds at least a read lock.
func (s *Session) snapshotLocked() map[string]interface{} {
	players := make([]map[string]interface{}, 0, 2)
	for _, p := range s.Players {
		players = append(players, map[string]interface{}{
			"id":           p.Profile.ID,
			"display_name": p.Profile.DisplayName,
			"avatar_ref":   p.Profile.AvatarRef,
			"rank":         p.Profile.Rank,
			"connected":    p.Connected,
		})
	}

	snap := map[string]interface{}{
		"session_id":    s.ID,
		"game_type":     s.GameType,
		"stake":         s.Stake,
		"players":       players,
		"current_turn":  s.CurrentTurn,
		"status":        s.Status,
		"winner":        s.Winner,
		"end_reason":    s.EndReason,
		"chat":          append([]ChatMessage(nil), s.Chat...),
		"rematch_votes": votedPlayers(s.RematchVotes),
	}

	switch {
	case s.Dice != nil:
		snap["dice"] = map[string]interface{}{
			"round":  s.Dice.Round,
			"scores": copyIntMap(s.Dice.Scores),
			"rolls":  copyRolls(s.Dice.Rolls),
			"phase":  s.Dice.Phase,
		}
	case s.Grid != nil:
		snap["grid"] = map[string]interface{}{"board": s.Grid.Board}
	case s.Relay != nil:
		snap["relay"] = map[string]interface{}{
			"board":          s.Relay.Board,
			"remaining_time": copyIntMap(s.Relay.RemainingTime),
		}
	}

	if s.Settlement != nil {
		snap["financials"] = *s.Settlement
	}
	return snap
}

// Snapshot returns the session snapshot under a read lock
func (s *Session) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func votedPlayers(votes map[string]bool) []string {
	ids := make([]string, 0, len(votes))
	for id, v := range votes {
		if v {
			ids = append(ids, id)
		}
	}
	return ids
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyRolls(m map[string][]int) map[string][]int {
	out := make(map[string][]int, len(m))
	for k, v := range m {
		out[k] = append([]int(nil), v...)
	}
	return out
}
