package game

// Rematch negotiation: both players must vote on the completed session; a
// reset keeps the session id and chat but rebuilds the game state.

func (s *OrchestratorSuite) completeByForfeit(sessionID, loser string) {
	s.orch.SubmitAction(loser, sessionID, Action{Type: ActionForfeit})
	s.Require().Equal(StatusCompleted, s.snapshot(sessionID)["status"])
}

func (s *OrchestratorSuite) TestRematchSingleVoteBroadcastsRequested() {
	sid := s.joinBoth(GameDice, 1000)
	s.completeByForfeit(sid, "bob")

	s.orch.SubmitAction("alice", sid, Action{Type: ActionRematchRequest})

	status := s.emitter.lastOfType("rematch_status")
	s.Require().NotNil(status)
	s.Equal("requested", status["status"])
	s.Equal("alice", status["requestor_id"])
	s.Equal(StatusCompleted, s.snapshot(sid)["status"])
	s.Equal([]string{"alice"}, s.snapshot(sid)["rematch_votes"])
}

func (s *OrchestratorSuite) TestRematchRequestOnActiveSessionIsIgnored() {
	sid := s.joinBoth(GameDice, 1000)

	s.orch.SubmitAction("alice", sid, Action{Type: ActionRematchRequest})

	s.Nil(s.emitter.lastOfType("rematch_status"))
	s.Empty(s.snapshot(sid)["rematch_votes"])
}

func (s *OrchestratorSuite) TestRematchBothVotesResetInPlace() {
	sid := s.joinBoth(GameDice, 1000)
	s.orch.SubmitAction("alice", sid, Action{Type: ActionChat, Text: "rematch?"})
	s.completeByForfeit(sid, "bob")

	s.orch.SubmitAction("alice", sid, Action{Type: ActionRematchRequest})
	s.emitter.clear()
	s.orch.SubmitAction("bob", sid, Action{Type: ActionRematchRequest})

	status := s.emitter.lastOfType("rematch_status")
	s.Require().NotNil(status)
	s.Equal("accepted", status["status"])

	found := s.emitter.ofType("match_found")
	s.Require().Len(found, 1)
	s.Equal(sid, found[0].event["session_id"], "rematch keeps the session id")

	snap := s.snapshot(sid)
	s.Equal(StatusActive, snap["status"])
	s.Equal("", snap["winner"])
	s.Equal("", snap["end_reason"])
	s.Equal("alice", snap["current_turn"], "turn returns to the first-listed player")
	s.Empty(snap["rematch_votes"])
	s.NotContains(snap, "financials")

	chat := snap["chat"].([]ChatMessage)
	s.Require().Len(chat, 1, "chat history survives the rematch")
	s.Equal("rematch?", chat[0].Text)

	dice := s.diceSnapshot(sid)
	s.Equal(1, dice["round"])
	s.Equal(map[string]int{"alice": 0, "bob": 0}, dice["scores"])
	s.Equal(DiceWaiting, dice["phase"])
}

func (s *OrchestratorSuite) TestRematchVoidsPendingEviction() {
	sid := s.joinBoth(GameDice, 1000)
	s.completeByForfeit(sid, "bob")

	s.orch.SubmitAction("alice", sid, Action{Type: ActionRematchRequest})
	s.orch.SubmitAction("bob", sid, Action{Type: ActionRematchRequest})

	s.sched.FireAll()
	s.NotNil(s.orch.SessionSnapshot(sid), "reactivated session must not be evicted")
}

func (s *OrchestratorSuite) TestRematchReregistersSessionEvictedMidVote() {
	sid := s.joinBoth(GameDice, 1000)
	s.completeByForfeit(sid, "bob")
	s.orch.SubmitAction("alice", sid, Action{Type: ActionRematchRequest})

	// The eviction delay fires after the second vote has looked the session
	// up but before it takes the session lock
	sess := s.orch.registry.Get(sid)
	s.Require().NotNil(sess)
	s.sched.FireAll()
	s.Require().Nil(s.orch.SessionSnapshot(sid))

	s.orch.handleRematchRequest(sess, "bob")

	snap := s.orch.SessionSnapshot(sid)
	s.Require().NotNil(snap, "reactivated session must be reachable again")
	s.Equal(StatusActive, snap["status"])
	s.True(s.orch.Rejoin("alice"), "player bindings must be restored")
}

func (s *OrchestratorSuite) TestRematchDeclineClearsVotes() {
	sid := s.joinBoth(GameDice, 1000)
	s.completeByForfeit(sid, "bob")
	s.orch.SubmitAction("alice", sid, Action{Type: ActionRematchRequest})

	s.orch.SubmitAction("bob", sid, Action{Type: ActionRematchDecline})

	status := s.emitter.lastOfType("rematch_status")
	s.Require().NotNil(status)
	s.Equal("declined", status["status"])
	s.Equal("bob", status["requestor_id"])
	s.Empty(s.snapshot(sid)["rematch_votes"])
	s.Equal(StatusCompleted, s.snapshot(sid)["status"])
}

func (s *OrchestratorSuite) TestStaleDiceSettleAfterRematchIsNoOp() {
	sid := s.joinBoth(GameDice, 1000)
	s.rnd.Values = []int{5, 5, 0, 0}
	s.orch.SubmitAction("alice", sid, Action{Type: ActionRoll})
	s.orch.SubmitAction("bob", sid, Action{Type: ActionRoll})
	// the match ends and restarts before the settle delay fires
	s.completeByForfeit(sid, "bob")
	s.orch.SubmitAction("alice", sid, Action{Type: ActionRematchRequest})
	s.orch.SubmitAction("bob", sid, Action{Type: ActionRematchRequest})

	s.sched.FireAll()

	dice := s.diceSnapshot(sid)
	s.Equal(1, dice["round"])
	s.Equal(map[string]int{"alice": 0, "bob": 0}, dice["scores"], "a stale settle must not score the new match")
	s.Equal(DiceWaiting, dice["phase"])
	s.Equal(StatusActive, s.snapshot(sid)["status"])
}
