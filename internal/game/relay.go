package game

import "log"

// handleRelayMove merges a whitelisted partial state update into a relay
// session. The acting client is legality-authoritative; the server's only
// enforcement is who may submit. Concurrent updates are last-write-wins.
func (o *Orchestrator) handleRelayMove(s *Session, playerID string, update RelayUpdate) {
	var events []outbound

	s.mu.Lock()
	r := s.Relay
	if r == nil || s.Status != StatusActive {
		s.mu.Unlock()
		return
	}
	if s.GameType.TurnGated() && s.CurrentTurn != playerID {
		s.mu.Unlock()
		return
	}

	if update.Board != nil {
		r.Board = update.Board
	}
	for id, remaining := range update.RemainingTime {
		if s.isParty(id) {
			r.RemainingTime[id] = remaining
		}
	}
	switch {
	case update.Turn != "" && s.isParty(update.Turn):
		s.CurrentTurn = update.Turn
	case s.GameType.TurnGated():
		s.CurrentTurn = s.opponentOf(playerID)
	}

	if update.Winner != "" && s.isParty(update.Winner) {
		log.Printf("[RELAY] session %s: client-declared winner %s", s.ID, update.Winner)
		events = append(events, o.completeLocked(s, update.Winner, ReasonWin)...)
	} else {
		events = append(events, o.emitStateLocked(s))
	}
	s.mu.Unlock()

	o.send(events)
}
