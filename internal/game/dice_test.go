package game

// Dice sessions: rolls are server-generated, rounds settle after a delay, and
// first to the configured round-win target takes the match.

func (s *OrchestratorSuite) diceSnapshot(sessionID string) map[string]interface{} {
	return s.snapshot(sessionID)["dice"].(map[string]interface{})
}

func (s *OrchestratorSuite) TestDiceHigherTotalScoresRound() {
	sid := s.joinBoth(GameDice, 1000)
	// alice rolls 5+3=8, bob rolls 4+6=10
	s.rnd.Values = []int{4, 2, 3, 5}

	s.orch.SubmitAction("alice", sid, Action{Type: ActionRoll})
	s.Equal("bob", s.currentTurn(sid), "turn passes after the first roll")
	s.orch.SubmitAction("bob", sid, Action{Type: ActionRoll})

	s.Require().Equal(1, s.sched.Pending(), "round settle should be scheduled")
	s.Require().True(s.sched.FireNext())

	dice := s.diceSnapshot(sid)
	s.Equal(map[string]int{"alice": 0, "bob": 1}, dice["scores"])
	s.Equal(DiceScored, dice["phase"])
	s.Equal(map[string][]int{"alice": {5, 3}, "bob": {4, 6}}, dice["rolls"])
}

func (s *OrchestratorSuite) TestDiceTieScoresNobody() {
	sid := s.joinBoth(GameDice, 1000)
	s.rnd.Values = []int{0, 0, 0, 0} // both roll 1+1

	s.orch.SubmitAction("alice", sid, Action{Type: ActionRoll})
	s.orch.SubmitAction("bob", sid, Action{Type: ActionRoll})
	s.Require().True(s.sched.FireNext())

	dice := s.diceSnapshot(sid)
	s.Equal(map[string]int{"alice": 0, "bob": 0}, dice["scores"])
	s.Equal(DiceScored, dice["phase"], "a tied round still advances")
}

func (s *OrchestratorSuite) TestDiceNextRoundAlternatesOpeningRoller() {
	sid := s.joinBoth(GameDice, 1000)
	s.rnd.Values = []int{4, 2, 3, 5}

	s.orch.SubmitAction("alice", sid, Action{Type: ActionRoll})
	s.orch.SubmitAction("bob", sid, Action{Type: ActionRoll})
	s.Require().True(s.sched.FireNext()) // settle round 1
	s.Require().True(s.sched.FireNext()) // start round 2

	dice := s.diceSnapshot(sid)
	s.Equal(2, dice["round"])
	s.Equal(DiceWaiting, dice["phase"])
	s.Empty(dice["rolls"])
	s.Equal("bob", s.currentTurn(sid), "even rounds open with the second-listed player")
}

func (s *OrchestratorSuite) TestDiceFirstToTargetWinsMatch() {
	sid := s.joinBoth(GameDice, 1000)
	// alice rolls 6+6, bob 1+1, every round; the opening roller alternates,
	// so the value order flips on even rounds
	s.rnd.Values = []int{
		5, 5, 0, 0, // round 1: alice then bob
		0, 0, 5, 5, // round 2: bob then alice
		5, 5, 0, 0, // round 3: alice then bob
	}

	for round := 1; round <= 3; round++ {
		s.orch.SubmitAction(s.currentTurn(sid), sid, Action{Type: ActionRoll})
		s.orch.SubmitAction(s.currentTurn(sid), sid, Action{Type: ActionRoll})
		s.Require().True(s.sched.FireNext(), "round %d settle", round)
		if round < 3 {
			s.Require().True(s.sched.FireNext(), "round %d advance", round)
		}
	}

	done := s.emitter.lastOfType("match_completed")
	s.Require().NotNil(done)
	s.Equal("alice", done["winner_id"])
	s.Equal(ReasonScoreLimit, done["reason"])

	snap := s.snapshot(sid)
	s.Equal(StatusCompleted, snap["status"])
	s.Equal(map[string]int{"alice": 3, "bob": 0}, s.diceSnapshot(sid)["scores"])
}

func (s *OrchestratorSuite) TestDiceAllTiesNeverCompletes() {
	sid := s.joinBoth(GameDice, 1000)
	s.rnd.Values = []int{0, 0, 0, 0} // the script repeats, so every round ties

	// No round bound exists when nobody scores; six tied rounds leave the
	// match running
	for round := 1; round <= 6; round++ {
		s.orch.SubmitAction(s.currentTurn(sid), sid, Action{Type: ActionRoll})
		s.orch.SubmitAction(s.currentTurn(sid), sid, Action{Type: ActionRoll})
		s.Require().True(s.sched.FireNext())
		s.Require().True(s.sched.FireNext())
	}

	s.Nil(s.emitter.lastOfType("match_completed"))
	dice := s.diceSnapshot(sid)
	s.Equal(7, dice["round"])
	s.Equal(map[string]int{"alice": 0, "bob": 0}, dice["scores"])
	s.Equal(StatusActive, s.snapshot(sid)["status"])
}

func (s *OrchestratorSuite) TestDiceRollRejectedOffTurn() {
	sid := s.joinBoth(GameDice, 1000)

	s.orch.SubmitAction("bob", sid, Action{Type: ActionRoll})

	s.Empty(s.diceSnapshot(sid)["rolls"])
	s.Equal(0, s.sched.Pending())
}

func (s *OrchestratorSuite) TestDiceDoubleRollRejected() {
	sid := s.joinBoth(GameDice, 1000)
	s.rnd.Values = []int{4, 2}

	s.orch.SubmitAction("alice", sid, Action{Type: ActionRoll})
	// turn passed to bob; alice tries again anyway
	s.orch.SubmitAction("alice", sid, Action{Type: ActionRoll})

	rolls := s.diceSnapshot(sid)["rolls"].(map[string][]int)
	s.Equal(map[string][]int{"alice": {5, 3}}, rolls)
	s.Equal("bob", s.currentTurn(sid))
}

func (s *OrchestratorSuite) TestDiceStaleSettleAfterForfeitIsNoOp() {
	sid := s.joinBoth(GameDice, 1000)
	s.rnd.Values = []int{5, 5, 0, 0}

	s.orch.SubmitAction("alice", sid, Action{Type: ActionRoll})
	s.orch.SubmitAction("bob", sid, Action{Type: ActionRoll})
	// forfeit lands before the settle delay fires
	s.orch.SubmitAction("bob", sid, Action{Type: ActionForfeit})

	s.sched.FireAll() // stale settle, then eviction

	done := s.emitter.ofType("match_completed")
	s.Require().Len(done, 1)
	s.Equal(ReasonForfeit, done[0].event["reason"])
	s.Nil(s.orch.SessionSnapshot(sid), "eviction ran")
}
