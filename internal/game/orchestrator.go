package game

import (
	"log"
	"sync"
	"time"

	"github.com/asapbuyco-source/Katika-sub000/internal/config"
	"github.com/asapbuyco-source/Katika-sub000/internal/dependencies/random"
	"github.com/asapbuyco-source/Katika-sub000/internal/dependencies/scheduler"
)

// Orchestrator owns the matchmaking queue, the session registry and the
// per-session game authority. One instance per process; all state is held
// here rather than in package globals so instances can coexist in tests.
type Orchestrator struct {
	cfg      *config.Config
	queue    *QueueManager
	registry *Registry
	emitter  Emitter
	recorder Recorder
	rand     random.Random
	sched    scheduler.Scheduler

	// Disconnect Supervisor: one armed grace timer per disconnected player
	graceMu     sync.Mutex
	graceTimers map[string]scheduler.CancelFunc
}

// outbound is an event waiting to be delivered once session locks are released
type outbound struct {
	to    []string
	event map[string]interface{}
}

// NewOrchestrator wires an orchestrator from its injected collaborators.
// emitter and recorder may be nil (no-op), which tests rely on.
func NewOrchestrator(cfg *config.Config, emitter Emitter, recorder Recorder, rnd random.Random, sched scheduler.Scheduler) *Orchestrator {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Orchestrator{
		cfg:         cfg,
		queue:       NewQueueManager(),
		registry:    NewRegistry(),
		emitter:     emitter,
		recorder:    recorder,
		rand:        rnd,
		sched:       sched,
		graceTimers: make(map[string]scheduler.CancelFunc),
	}
}

// JoinQueue enqueues a player for (gameType, stake), creating a session as
// soon as two players wait in the same bucket. A player already bound to a
// live session is re-attached to it instead of being queued.
func (o *Orchestrator) JoinQueue(profile PlayerProfile, gameType GameType, stake int) {
	if !gameType.Valid() || stake < 0 || stake < o.cfg.MinStakeAmount {
		log.Printf("[MATCH] rejected join_queue: type=%s stake=%d player=%s", gameType, stake, profile.ID)
		return
	}

	// Reconnect path wins over queueing while the match is live. Queueing
	// from a completed session is a fresh-match intent: decline any pending
	// rematch and fall through to the queue.
	if s := o.registry.ForPlayer(profile.ID); s != nil {
		s.mu.Lock()
		if s.Status == StatusActive {
			s.mu.Unlock()
			o.reattach(s, profile.ID)
			return
		}
		events := o.declineRematchLocked(s, profile.ID)
		s.mu.Unlock()
		o.send(events)
	}

	opponent, matched, err := o.queue.Enqueue(profile, gameType, stake)
	if err != nil {
		log.Printf("[MATCH] enqueue failed: %v", err)
		return
	}
	if !matched {
		o.emitter.ToPlayer(profile.ID, map[string]interface{}{
			"type":      "queued",
			"game_type": gameType,
			"stake":     stake,
		})
		return
	}

	// The opponent queued first and is listed first; they hold the opening turn
	o.createSession(gameType, stake, opponent, profile)
}

// createSession builds the session, registers it and announces the match
func (o *Orchestrator) createSession(gameType GameType, stake int, playerA, playerB PlayerProfile) {
	id := "s_" + o.rand.Token(8)
	s := NewSession(id, gameType, stake, playerA, playerB, o.cfg.ChatHistoryLimit)
	o.registry.Put(s)

	log.Printf("[MATCH] session created: id=%s type=%s stake=%d p1=%s p2=%s", id, gameType, stake, playerA.ID, playerB.ID)

	go o.recorder.SessionCreated(SessionRecord{
		SessionID: id,
		GameType:  gameType,
		Stake:     stake,
		Player1ID: playerA.ID,
		Player2ID: playerB.ID,
	})

	snap := s.Snapshot()
	go o.recorder.SaveSnapshot(s.ID, snap)
	o.emitter.ToPlayers(s.playerIDs(), withType("match_found", snap))
}

// Rejoin re-attaches a reconnecting player to their live session. Returns
// false when no session is bound to the player id.
func (o *Orchestrator) Rejoin(playerID string) bool {
	s := o.registry.ForPlayer(playerID)
	if s == nil {
		return false
	}
	o.reattach(s, playerID)
	return true
}

// reattach marks the player connected, cancels any pending grace timer and
// resends the session snapshot
func (o *Orchestrator) reattach(s *Session, playerID string) {
	o.cancelGraceTimer(playerID)

	s.mu.Lock()
	p := s.playerByID(playerID)
	if p == nil {
		s.mu.Unlock()
		return
	}
	wasDisconnected := !p.Connected
	p.Connected = true
	p.DisconnectedAt = nil
	opponent := s.opponentOf(playerID)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	o.emitter.ToPlayer(playerID, withType("match_found", snap))
	if wasDisconnected {
		log.Printf("[MATCH] player %s rejoined session %s", playerID, s.ID)
		o.emitter.ToPlayer(opponent, map[string]interface{}{
			"type":   "opponent_reconnected",
			"player": playerID,
		})
	}
}

// SubmitAction validates and applies a client action. Actions referencing an
// unknown session, an unrecognized sender, or a sender not party to the
// session are silently dropped.
func (o *Orchestrator) SubmitAction(playerID, sessionID string, action Action) {
	if playerID == "" {
		return
	}
	s := o.registry.Get(sessionID)
	if s == nil {
		log.Printf("[MATCH] dropped action %q for unknown session %s", action.Type, sessionID)
		return
	}
	s.mu.RLock()
	party := s.isParty(playerID)
	s.mu.RUnlock()
	if !party {
		log.Printf("[MATCH] dropped action %q from non-party %s on session %s", action.Type, playerID, sessionID)
		return
	}

	switch action.Type {
	case ActionForfeit:
		o.handleForfeit(s, playerID)
	case ActionRoll:
		o.handleRoll(s, playerID)
	case ActionMove:
		o.handleMove(s, playerID, action)
	case ActionChat:
		o.handleChat(s, playerID, action.Text)
	case ActionRematchRequest:
		o.handleRematchRequest(s, playerID)
	case ActionRematchDecline:
		o.handleRematchDecline(s, playerID)
	case ActionTimeoutClaim:
		o.handleTimeoutClaim(s, playerID)
	default:
		log.Printf("[MATCH] dropped unknown action %q from %s", action.Type, playerID)
	}
}

// handleMove routes a move to the authority for the session's game type
func (o *Orchestrator) handleMove(s *Session, playerID string, action Action) {
	switch {
	case s.GameType == GameTicTacToe:
		if action.Cell == nil {
			return
		}
		o.handleGridMove(s, playerID, *action.Cell)
	case s.GameType.Relay():
		if action.State == nil {
			return
		}
		o.handleRelayMove(s, playerID, *action.State)
	default:
		// dice sessions move via roll, not move
	}
}

// handleForfeit completes the session with the other player as winner.
// Always accepted from either party regardless of turn.
func (o *Orchestrator) handleForfeit(s *Session, playerID string) {
	s.mu.Lock()
	if s.Status != StatusActive {
		s.mu.Unlock()
		return
	}
	events := o.completeLocked(s, s.opponentOf(playerID), ReasonForfeit)
	s.mu.Unlock()
	o.send(events)
}

// handleChat appends to the bounded chat ring. No turn gating.
func (o *Orchestrator) handleChat(s *Session, playerID, text string) {
	if text == "" {
		return
	}
	msg := ChatMessage{From: playerID, Text: text, SentAt: time.Now()}
	s.mu.Lock()
	s.appendChatLocked(msg)
	ids := s.playerIDs()
	s.mu.Unlock()

	o.emitter.ToPlayers(ids, map[string]interface{}{
		"type":    "chat",
		"from":    msg.From,
		"text":    msg.Text,
		"sent_at": msg.SentAt,
	})
}

// handleTimeoutClaim completes a relay session in the claimer's favor. The
// acting client is clock-authoritative for relay games, consistent with the
// relay trust model; non-relay sessions ignore the claim.
func (o *Orchestrator) handleTimeoutClaim(s *Session, playerID string) {
	if !s.GameType.Relay() {
		return
	}
	s.mu.Lock()
	if s.Status != StatusActive {
		s.mu.Unlock()
		return
	}
	events := o.completeLocked(s, playerID, ReasonTimeout)
	s.mu.Unlock()
	o.send(events)
}

// completeLocked performs the terminal transition: sets winner and reason,
// computes the settlement once, schedules eviction and hands the completion
// to the persistence collaborator. Caller holds s.mu; returned events must be
// emitted after unlock.
func (o *Orchestrator) completeLocked(s *Session, winnerID, reason string) []outbound {
	now := time.Now()
	s.Status = StatusCompleted
	s.Winner = winnerID
	s.EndReason = reason
	s.CompletedAt = &now
	settlement := Settle(s.Stake, o.cfg.CommissionPercentage)
	s.Settlement = &settlement

	log.Printf("[SETTLE] session %s completed: winner=%s reason=%s pot=%d fee=%d winnings=%d",
		s.ID, winnerID, reason, settlement.TotalPot, settlement.PlatformFee, settlement.Winnings)

	rec := CompletionRecord{
		SessionID:  s.ID,
		GameType:   s.GameType,
		Stake:      s.Stake,
		WinnerID:   winnerID,
		LoserID:    s.opponentOf(winnerID),
		Reason:     reason,
		Settlement: settlement,
	}
	go o.recorder.SessionCompleted(rec)

	o.scheduleEvictionLocked(s)

	snap := s.snapshotLocked()
	go o.recorder.SaveSnapshot(s.ID, snap)
	ids := s.playerIDs()
	return []outbound{
		{to: ids, event: withType("state_update", snap)},
		{to: ids, event: map[string]interface{}{
			"type":       "match_completed",
			"session_id": s.ID,
			"winner_id":  winnerID,
			"reason":     reason,
			"financials": settlement,
		}},
	}
}

// scheduleEvictionLocked arms the post-completion eviction delay. The cancel
// handle is kept on the session so a rematch reactivation can void it.
func (o *Orchestrator) scheduleEvictionLocked(s *Session) {
	if s.evictCancel != nil {
		s.evictCancel()
	}
	sessionID := s.ID
	s.evictCancel = o.sched.After(time.Duration(o.cfg.SessionEvictSeconds)*time.Second, func() {
		o.evictIfCompleted(sessionID)
	})
}

// evictIfCompleted removes a session that is still completed when the delay
// fires; a rematch that returned it to Active leaves it alone. The status
// check and the removal happen under the session lock, so a rematch
// reactivation cannot slip in between them.
func (o *Orchestrator) evictIfCompleted(sessionID string) {
	s := o.registry.Get(sessionID)
	if s == nil {
		return
	}
	s.mu.Lock()
	completed := s.Status == StatusCompleted
	if completed {
		o.registry.Evict(sessionID)
	}
	s.mu.Unlock()
	if completed {
		log.Printf("[MATCH] session %s evicted", sessionID)
	}
}

// emitStateLocked snapshots the session and returns the broadcast event.
// Caller holds s.mu; the snapshot is a fresh value, so persistence runs off
// this goroutine and never holds up the session.
func (o *Orchestrator) emitStateLocked(s *Session) outbound {
	snap := s.snapshotLocked()
	go o.recorder.SaveSnapshot(s.ID, snap)
	return outbound{to: s.playerIDs(), event: withType("state_update", snap)}
}

func (o *Orchestrator) send(events []outbound) {
	for _, e := range events {
		o.emitter.ToPlayers(e.to, e.event)
	}
}

// QueueDepths exposes queue bucket depths for the REST surface
func (o *Orchestrator) QueueDepths() map[string]int {
	return o.queue.Depths()
}

// SessionSnapshot returns the snapshot for a live session, or nil
func (o *Orchestrator) SessionSnapshot(sessionID string) map[string]interface{} {
	s := o.registry.Get(sessionID)
	if s == nil {
		return nil
	}
	return s.Snapshot()
}

// ActiveSessionCount returns the number of live sessions
func (o *Orchestrator) ActiveSessionCount() int {
	return o.registry.Count()
}

func withType(eventType string, data map[string]interface{}) map[string]interface{} {
	event := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		event[k] = v
	}
	event["type"] = eventType
	return event
}

type nopEmitter struct{}

func (nopEmitter) ToPlayer(string, map[string]interface{}) {}

func (nopEmitter) ToPlayers([]string, map[string]interface{}) {}

type nopRecorder struct{}

func (nopRecorder) SessionCreated(SessionRecord)      {}
func (nopRecorder) SessionCompleted(CompletionRecord) {}

func (nopRecorder) SaveSnapshot(string, map[string]interface{}) {}
