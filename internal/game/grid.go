package game

import "log"

// the eight winning lines of the 3x3 board
var gridLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// handleGridMove places a mark for the turn holder. A completed line wins
// the match; a full board with no line is a draw and resets the board for a
// fresh round on the same session.
func (o *Orchestrator) handleGridMove(s *Session, playerID string, cell int) {
	var events []outbound

	s.mu.Lock()
	g := s.Grid
	if g == nil || s.Status != StatusActive || s.CurrentTurn != playerID {
		s.mu.Unlock()
		return
	}
	if cell < 0 || cell >= len(g.Board) || g.Board[cell] != "" {
		s.mu.Unlock()
		return
	}

	mark := s.markOf(playerID)
	g.Board[cell] = mark
	s.CurrentTurn = s.opponentOf(playerID)

	switch {
	case gridWin(g.Board, mark):
		events = append(events, o.completeLocked(s, playerID, ReasonWin)...)
	case gridFull(g.Board):
		// Drawn round: clear the board, match continues
		g.Board = [9]string{}
		log.Printf("[GRID] session %s round drawn, board reset", s.ID)
		state := o.emitStateLocked(s)
		state.event["round_draw"] = true
		events = append(events, state)
	default:
		events = append(events, o.emitStateLocked(s))
	}
	s.mu.Unlock()

	o.send(events)
}

func gridWin(board [9]string, mark string) bool {
	for _, line := range gridLines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return true
		}
	}
	return false
}

func gridFull(board [9]string) bool {
	for _, cell := range board {
		if cell == "" {
			return false
		}
	}
	return true
}
