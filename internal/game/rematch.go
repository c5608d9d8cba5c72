package game

import "log"

// handleRematchRequest records a rematch vote on a completed session. When
// both players have voted, the session is reset in place: same id, same chat
// history, fresh embedded state, turn back to the first-listed player.
func (o *Orchestrator) handleRematchRequest(s *Session, playerID string) {
	var events []outbound

	s.mu.Lock()
	if s.Status != StatusCompleted {
		s.mu.Unlock()
		return
	}
	s.RematchVotes[playerID] = true
	ids := s.playerIDs()

	both := true
	for _, id := range ids {
		if !s.RematchVotes[id] {
			both = false
			break
		}
	}

	if !both {
		events = append(events, outbound{to: ids, event: map[string]interface{}{
			"type":         "rematch_status",
			"requestor_id": playerID,
			"status":       "requested",
		}})
		s.mu.Unlock()
		o.send(events)
		return
	}

	log.Printf("[REMATCH] session %s: both accepted, resetting", s.ID)
	o.resetForRematchLocked(s)

	go o.recorder.SessionCreated(SessionRecord{
		SessionID: s.ID,
		GameType:  s.GameType,
		Stake:     s.Stake,
		Player1ID: ids[0],
		Player2ID: ids[1],
	})

	snap := s.snapshotLocked()
	go o.recorder.SaveSnapshot(s.ID, snap)
	events = append(events,
		outbound{to: ids, event: map[string]interface{}{
			"type":         "rematch_status",
			"requestor_id": playerID,
			"status":       "accepted",
		}},
		outbound{to: ids, event: withType("match_found", snap)},
	)
	s.mu.Unlock()

	o.send(events)
}

// resetForRematchLocked returns a completed session to Active with fresh
// embedded state. The session id and chat history persist; the pending
// eviction is voided and stale dice callbacks are invalidated.
func (o *Orchestrator) resetForRematchLocked(s *Session) {
	s.Status = StatusActive
	s.Winner = ""
	s.EndReason = ""
	s.Settlement = nil
	s.CompletedAt = nil
	s.CurrentTurn = s.Players[0].Profile.ID
	s.RematchVotes = make(map[string]bool)
	s.diceEpoch++
	s.initEmbeddedLocked()

	if s.evictCancel != nil {
		s.evictCancel()
		s.evictCancel = nil
	}

	// An eviction that fired between the vote's registry lookup and this
	// reset has already removed the session; re-register it
	o.registry.Put(s)
}

// handleRematchDecline declines a pending rematch negotiation
func (o *Orchestrator) handleRematchDecline(s *Session, playerID string) {
	s.mu.Lock()
	events := o.declineRematchLocked(s, playerID)
	s.mu.Unlock()
	o.send(events)
}

// declineRematchLocked clears the vote set and notifies both players. A
// decline with no votes outstanding still broadcasts, so a client that never
// voted learns the window is closed. Caller holds s.mu.
func (o *Orchestrator) declineRematchLocked(s *Session, playerID string) []outbound {
	if s.Status != StatusCompleted {
		return nil
	}
	s.RematchVotes = make(map[string]bool)
	return []outbound{{to: s.playerIDs(), event: map[string]interface{}{
		"type":         "rematch_status",
		"requestor_id": playerID,
		"status":       "declined",
	}}}
}
