package game

import (
	"log"
	"time"
)

// HandleDisconnect reacts to a transport-level connection loss. A player in
// an active session enters the grace period; a player in a completed session
// implicitly declines any pending rematch; a queued player is dequeued.
func (o *Orchestrator) HandleDisconnect(playerID string) {
	if playerID == "" {
		return
	}

	s := o.registry.ForPlayer(playerID)
	if s == nil {
		if o.queue.Remove(playerID) {
			log.Printf("[DISCONNECT] removed %s from queue", playerID)
		}
		return
	}

	var events []outbound

	s.mu.Lock()
	p := s.playerByID(playerID)
	if p == nil {
		s.mu.Unlock()
		return
	}
	now := time.Now()
	p.Connected = false
	p.DisconnectedAt = &now
	opponent := s.opponentOf(playerID)

	switch s.Status {
	case StatusActive:
		grace := o.cfg.DisconnectGraceSeconds
		log.Printf("[DISCONNECT] player %s lost from session %s, grace %ds", playerID, s.ID, grace)
		o.armGraceTimer(playerID, time.Duration(grace)*time.Second)
		// Tell the opponent immediately so the UI can show a countdown
		events = append(events, outbound{to: []string{opponent}, event: map[string]interface{}{
			"type":            "opponent_disconnected",
			"player":          playerID,
			"timeout_seconds": grace,
		}})
	case StatusCompleted:
		// Disconnecting during the rematch window is an implicit decline
		events = append(events, o.declineRematchLocked(s, playerID)...)
	}
	s.mu.Unlock()

	o.send(events)
}

// armGraceTimer arms (or re-arms) the grace-period countdown for a player.
// Reconnection is matched by player id, so a fresh timer replaces a stale one.
func (o *Orchestrator) armGraceTimer(playerID string, grace time.Duration) {
	o.graceMu.Lock()
	if cancel, ok := o.graceTimers[playerID]; ok {
		cancel()
	}
	o.graceTimers[playerID] = o.sched.After(grace, func() {
		o.onGraceExpired(playerID)
	})
	o.graceMu.Unlock()
}

// cancelGraceTimer cancels a pending grace timer, if any
func (o *Orchestrator) cancelGraceTimer(playerID string) {
	o.graceMu.Lock()
	if cancel, ok := o.graceTimers[playerID]; ok {
		cancel()
		delete(o.graceTimers, playerID)
	}
	o.graceMu.Unlock()
}

// onGraceExpired forces a forfeit for a player whose grace period ran out.
// The timer is consumed exactly once; a session no longer active, or a player
// who reconnected in the meantime, makes this a no-op.
func (o *Orchestrator) onGraceExpired(playerID string) {
	o.graceMu.Lock()
	delete(o.graceTimers, playerID)
	o.graceMu.Unlock()

	s := o.registry.ForPlayer(playerID)
	if s == nil {
		return
	}

	var events []outbound

	s.mu.Lock()
	p := s.playerByID(playerID)
	if p == nil || p.Connected || s.Status != StatusActive {
		s.mu.Unlock()
		return
	}
	log.Printf("[DISCONNECT] grace expired for %s in session %s, forfeiting", playerID, s.ID)
	events = o.completeLocked(s, s.opponentOf(playerID), ReasonDisconnected)
	s.mu.Unlock()

	o.send(events)
}
