package game

// Disconnect supervision: a dropped player gets a grace period to come back
// before the match is forfeited to the opponent.

func (s *OrchestratorSuite) TestDisconnectRemovesQueuedPlayer() {
	s.orch.JoinQueue(PlayerProfile{ID: "alice"}, GameDice, 1000)

	s.orch.HandleDisconnect("alice")

	s.Empty(s.orch.QueueDepths())
}

func (s *OrchestratorSuite) TestDisconnectNotifiesOpponentAndArmsGrace() {
	sid := s.joinBoth(GameDice, 1000)

	s.orch.HandleDisconnect("bob")

	notices := s.emitter.ofType("opponent_disconnected")
	s.Require().Len(notices, 1)
	s.Equal([]string{"alice"}, notices[0].to)
	s.Equal("bob", notices[0].event["player"])
	s.Equal(60, notices[0].event["timeout_seconds"])

	s.Equal(1, s.sched.Pending())
	s.Equal(StatusActive, s.snapshot(sid)["status"])
}

func (s *OrchestratorSuite) TestGraceExpiryForfeitsDisconnectedPlayer() {
	sid := s.joinBoth(GameDice, 1000)
	s.orch.HandleDisconnect("bob")

	s.Require().True(s.sched.FireNext())

	done := s.emitter.lastOfType("match_completed")
	s.Require().NotNil(done)
	s.Equal("alice", done["winner_id"])
	s.Equal(ReasonDisconnected, done["reason"])
	s.Equal(StatusCompleted, s.snapshot(sid)["status"])
}

func (s *OrchestratorSuite) TestRejoinBeforeExpiryCancelsGrace() {
	sid := s.joinBoth(GameDice, 1000)
	s.orch.HandleDisconnect("bob")
	s.emitter.clear()

	s.Require().True(s.orch.Rejoin("bob"))

	found := s.emitter.ofType("match_found")
	s.Require().Len(found, 1)
	s.Equal([]string{"bob"}, found[0].to)
	s.Equal(sid, found[0].event["session_id"])

	back := s.emitter.ofType("opponent_reconnected")
	s.Require().Len(back, 1)
	s.Equal([]string{"alice"}, back[0].to)

	s.sched.FireAll()
	s.Empty(s.emitter.ofType("match_completed"), "canceled grace timer must not forfeit")
	s.Equal(StatusActive, s.snapshot(sid)["status"])
}

func (s *OrchestratorSuite) TestRejoinAfterExpiryFindsCompletedSession() {
	sid := s.joinBoth(GameDice, 1000)
	s.orch.HandleDisconnect("bob")
	s.Require().True(s.sched.FireNext()) // grace expires
	s.emitter.clear()

	s.Require().True(s.orch.Rejoin("bob"))

	found := s.emitter.lastOfType("match_found")
	s.Require().NotNil(found)
	s.Equal(sid, found["session_id"])
	s.Equal(StatusCompleted, found["status"])
	s.Equal("alice", found["winner"])
	s.Equal(ReasonDisconnected, found["end_reason"])
}

func (s *OrchestratorSuite) TestRejoinWithoutSessionReturnsFalse() {
	s.False(s.orch.Rejoin("ghost"))
}

func (s *OrchestratorSuite) TestDisconnectDuringRematchWindowDeclines() {
	sid := s.joinBoth(GameDice, 1000)
	s.orch.SubmitAction("bob", sid, Action{Type: ActionForfeit})
	s.orch.SubmitAction("alice", sid, Action{Type: ActionRematchRequest})
	s.emitter.clear()

	s.orch.HandleDisconnect("bob")

	status := s.emitter.lastOfType("rematch_status")
	s.Require().NotNil(status)
	s.Equal("declined", status["status"])
	s.Empty(s.snapshot(sid)["rematch_votes"])
}

func (s *OrchestratorSuite) TestDisconnectBothPlayersForfeitsOnce() {
	s.joinBoth(GameDice, 1000)

	s.orch.HandleDisconnect("alice")
	s.orch.HandleDisconnect("bob")
	s.sched.FireAll()

	done := s.emitter.ofType("match_completed")
	s.Require().Len(done, 1, "only the first expiry completes the match")
	s.Equal(ReasonDisconnected, done[0].event["reason"])
}
