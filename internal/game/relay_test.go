package game

import "encoding/json"

// Relay sessions: the acting client is legality-authoritative, the server
// enforces only who may submit and which fields may change.

func (s *OrchestratorSuite) relayState(sessionID string) map[string]interface{} {
	return s.snapshot(sessionID)["relay"].(map[string]interface{})
}

func (s *OrchestratorSuite) relayMove(sessionID, playerID string, update RelayUpdate) {
	s.orch.SubmitAction(playerID, sessionID, Action{Type: ActionMove, State: &update})
}

func (s *OrchestratorSuite) TestRelayBoardReplacedAndClocksMerged() {
	sid := s.joinBoth(GameChess, 2000)
	board := json.RawMessage(`{"fen":"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"}`)

	s.relayMove(sid, "alice", RelayUpdate{
		Board:         board,
		RemainingTime: map[string]int{"alice": 290, "bob": 300, "mallory": 1},
	})

	relay := s.relayState(sid)
	s.Equal(board, relay["board"])
	s.Equal(map[string]int{"alice": 290, "bob": 300}, relay["remaining_time"], "clock keys are whitelisted to the two parties")
	s.Equal("bob", s.currentTurn(sid), "gated relay games flip the turn by default")
}

func (s *OrchestratorSuite) TestRelayPartialUpdateKeepsBoard() {
	sid := s.joinBoth(GameChess, 2000)
	board := json.RawMessage(`{"fen":"start"}`)
	s.relayMove(sid, "alice", RelayUpdate{Board: board})

	s.relayMove(sid, "bob", RelayUpdate{RemainingTime: map[string]int{"bob": 250}})

	relay := s.relayState(sid)
	s.Equal(board, relay["board"], "absent fields are left untouched")
	s.Equal(map[string]int{"bob": 250}, relay["remaining_time"])
}

func (s *OrchestratorSuite) TestRelayExplicitTurnIsHonored() {
	sid := s.joinBoth(GameCheckers, 1500)

	// A multi-jump keeps the mover on turn
	s.relayMove(sid, "alice", RelayUpdate{Board: json.RawMessage(`{"jump":1}`), Turn: "alice"})

	s.Equal("alice", s.currentTurn(sid))
}

func (s *OrchestratorSuite) TestRelayTurnForNonPartyFallsBackToFlip() {
	sid := s.joinBoth(GameCheckers, 1500)

	s.relayMove(sid, "alice", RelayUpdate{Turn: "mallory"})

	s.Equal("bob", s.currentTurn(sid))
}

func (s *OrchestratorSuite) TestRelayMoveRejectedOffTurn() {
	sid := s.joinBoth(GameChess, 2000)

	s.relayMove(sid, "bob", RelayUpdate{Board: json.RawMessage(`{"x":1}`)})

	s.Nil(s.relayState(sid)["board"])
	s.Equal("alice", s.currentTurn(sid))
}

func (s *OrchestratorSuite) TestCardsRelayIsNotTurnGated() {
	sid := s.joinBoth(GameCards, 1000)

	// bob is not the turn holder but the card game accepts from either party
	s.relayMove(sid, "bob", RelayUpdate{Board: json.RawMessage(`{"pile":["7H"]}`)})

	s.Equal(json.RawMessage(`{"pile":["7H"]}`), s.relayState(sid)["board"])
}

func (s *OrchestratorSuite) TestRelayDeclaredWinnerCompletesMatch() {
	sid := s.joinBoth(GameChess, 2000)

	s.relayMove(sid, "alice", RelayUpdate{Board: json.RawMessage(`{"mate":true}`), Winner: "alice"})

	done := s.emitter.lastOfType("match_completed")
	s.Require().NotNil(done)
	s.Equal("alice", done["winner_id"])
	s.Equal(ReasonWin, done["reason"])
}

func (s *OrchestratorSuite) TestRelayNonPartyWinnerIsIgnored() {
	sid := s.joinBoth(GameChess, 2000)

	s.relayMove(sid, "alice", RelayUpdate{Winner: "mallory"})

	s.Nil(s.emitter.lastOfType("match_completed"))
	s.Equal(StatusActive, s.snapshot(sid)["status"])
}

func (s *OrchestratorSuite) TestTimeoutClaimCompletesRelayMatch() {
	sid := s.joinBoth(GameLudo, 1000)

	s.orch.SubmitAction("bob", sid, Action{Type: ActionTimeoutClaim})

	done := s.emitter.lastOfType("match_completed")
	s.Require().NotNil(done)
	s.Equal("bob", done["winner_id"], "claimer wins a relay timeout")
	s.Equal(ReasonTimeout, done["reason"])
}

func (s *OrchestratorSuite) TestTimeoutClaimIgnoredForNonRelay() {
	sid := s.joinBoth(GameDice, 1000)

	s.orch.SubmitAction("bob", sid, Action{Type: ActionTimeoutClaim})

	s.Nil(s.emitter.lastOfType("match_completed"))
	s.Equal(StatusActive, s.snapshot(sid)["status"])
}
