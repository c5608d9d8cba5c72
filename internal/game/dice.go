package game

import (
	"log"
	"time"
)

// handleRoll processes a dice roll. Accepted only from the turn holder of an
// active dice session; both dice are generated server-side.
func (o *Orchestrator) handleRoll(s *Session, playerID string) {
	var events []outbound

	s.mu.Lock()
	d := s.Dice
	if d == nil || s.Status != StatusActive || s.CurrentTurn != playerID || d.Phase != DiceWaiting {
		s.mu.Unlock()
		return
	}
	if _, rolled := d.Rolls[playerID]; rolled {
		s.mu.Unlock()
		return
	}

	roll := []int{o.rand.Intn(6) + 1, o.rand.Intn(6) + 1}
	d.Rolls[playerID] = roll
	log.Printf("[DICE] session %s round %d: %s rolled %d+%d", s.ID, d.Round, playerID, roll[0], roll[1])

	if len(d.Rolls) == 2 {
		// Both slots filled; settle after the visual-settle delay. The
		// callback re-checks status and epoch: a forfeit or rematch that
		// lands in the meantime makes it a no-op.
		epoch := s.diceEpoch
		round := d.Round
		sessionID := s.ID
		o.sched.After(time.Duration(o.cfg.DiceSettleDelayMs)*time.Millisecond, func() {
			o.settleDiceRound(sessionID, epoch, round)
		})
	} else {
		s.CurrentTurn = s.opponentOf(playerID)
	}

	events = append(events, o.emitStateLocked(s))
	s.mu.Unlock()

	o.send(events)
}

// settleDiceRound awards the round point once both rolls are in. Fired from
// the scheduler after the settle delay.
func (o *Orchestrator) settleDiceRound(sessionID string, epoch, round int) {
	s := o.registry.Get(sessionID)
	if s == nil {
		return
	}
	var events []outbound

	s.mu.Lock()
	d := s.Dice
	if d == nil || s.Status != StatusActive || s.diceEpoch != epoch || d.Round != round || d.Phase != DiceWaiting {
		s.mu.Unlock()
		return
	}

	p1 := s.Players[0].Profile.ID
	p2 := s.Players[1].Profile.ID
	r1, ok1 := d.Rolls[p1]
	r2, ok2 := d.Rolls[p2]
	if !ok1 || !ok2 {
		s.mu.Unlock()
		return
	}

	total1 := r1[0] + r1[1]
	total2 := r2[0] + r2[1]
	switch {
	case total1 > total2:
		d.Scores[p1]++
	case total2 > total1:
		d.Scores[p2]++
	default:
		// Tie: nobody scores. Every round can tie, so a session has no
		// hard round bound; the score limit is the only terminator.
	}
	d.Phase = DiceScored
	log.Printf("[DICE] session %s round %d settled: %s=%d %s=%d scores=%v", s.ID, round, p1, total1, p2, total2, d.Scores)

	target := o.cfg.DiceTargetWins
	var winner string
	if d.Scores[p1] >= target {
		winner = p1
	} else if d.Scores[p2] >= target {
		winner = p2
	}

	if winner != "" {
		events = append(events, o.completeLocked(s, winner, ReasonScoreLimit)...)
	} else {
		events = append(events, o.emitStateLocked(s))
		o.sched.After(time.Duration(o.cfg.DiceRoundDelayMs)*time.Millisecond, func() {
			o.startNextDiceRound(sessionID, epoch, round)
		})
	}
	s.mu.Unlock()

	o.send(events)
}

// startNextDiceRound resets round state after the post-score delay and
// alternates the starting roller by round parity
func (o *Orchestrator) startNextDiceRound(sessionID string, epoch, round int) {
	s := o.registry.Get(sessionID)
	if s == nil {
		return
	}
	var events []outbound

	s.mu.Lock()
	d := s.Dice
	if d == nil || s.Status != StatusActive || s.diceEpoch != epoch || d.Round != round || d.Phase != DiceScored {
		s.mu.Unlock()
		return
	}

	d.Round++
	d.Rolls = make(map[string][]int)
	d.Phase = DiceWaiting
	// Odd rounds start with the first-listed player, even rounds with the second
	s.CurrentTurn = s.Players[(d.Round+1)%2].Profile.ID
	log.Printf("[DICE] session %s round %d starts, %s to roll", s.ID, d.Round, s.CurrentTurn)

	events = append(events, o.emitStateLocked(s))
	s.mu.Unlock()

	o.send(events)
}
