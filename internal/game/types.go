package game

import "time"

// GameType identifies one of the supported game types
type GameType string

const (
	GameDice      GameType = "dice"
	GameTicTacToe GameType = "tictactoe"
	GameCheckers  GameType = "checkers"
	GameChess     GameType = "chess"
	GameLudo      GameType = "ludo"
	GameCards     GameType = "cards"
)

// Valid reports whether t is a known game type
func (t GameType) Valid() bool {
	switch t {
	case GameDice, GameTicTacToe, GameCheckers, GameChess, GameLudo, GameCards:
		return true
	}
	return false
}

// Relay reports whether the server trusts the acting client's computed state
// for this game type rather than recomputing legality itself
func (t GameType) Relay() bool {
	switch t {
	case GameCheckers, GameChess, GameLudo, GameCards:
		return true
	}
	return false
}

// TurnGated reports whether moves are accepted only from the turn holder.
// The card game is a pure broadcast relay with no turn gating.
func (t GameType) TurnGated() bool {
	return t != GameCards
}

// Status represents the lifecycle state of a session
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// termination reasons
const (
	ReasonForfeit      = "forfeit"
	ReasonDisconnected = "disconnected"
	ReasonScoreLimit   = "score_limit"
	ReasonWin          = "win"
	ReasonTimeout      = "timeout"
)

// PlayerProfile is the immutable profile snapshot taken at match time.
// Later profile edits do not change an in-progress session.
type PlayerProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
	Rank        int    `json:"rank,omitempty"`
}

// ChatMessage is one entry in a session's bounded chat log
type ChatMessage struct {
	From   string    `json:"from"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// Action is a client-submitted action on a session
type Action struct {
	Type  string       `json:"type"`
	Cell  *int         `json:"cell,omitempty"`  // grid move
	State *RelayUpdate `json:"state,omitempty"` // relay move
	Text  string       `json:"text,omitempty"`  // chat
}

// action types
const (
	ActionForfeit        = "forfeit"
	ActionRoll           = "roll"
	ActionMove           = "move"
	ActionChat           = "chat"
	ActionRematchRequest = "rematch_request"
	ActionRematchDecline = "rematch_decline"
	ActionTimeoutClaim   = "timeout_claim"
)

// Emitter delivers outbound events to connected clients.
// Implemented by the websocket hub.
type Emitter interface {
	ToPlayer(playerID string, event map[string]interface{})
	ToPlayers(playerIDs []string, event map[string]interface{})
}

// SessionRecord carries the durable facts about a session at creation time
type SessionRecord struct {
	SessionID string
	GameType  GameType
	Stake     int
	Player1ID string
	Player2ID string
}

// CompletionRecord carries everything the persistence collaborator needs to
// settle a finished match. Built once per terminal transition.
type CompletionRecord struct {
	SessionID  string
	GameType   GameType
	Stake      int
	WinnerID   string
	LoserID    string
	Reason     string
	Settlement Settlement
}

// Recorder is the external persistence collaborator. Implementations must be
// best-effort: the orchestration core never blocks on them.
type Recorder interface {
	SessionCreated(rec SessionRecord)
	SessionCompleted(rec CompletionRecord)
	SaveSnapshot(sessionID string, snapshot map[string]interface{})
}
