package models

import (
	"database/sql"
	"time"
)

// Player represents a durable player record
type Player struct {
	ID             int          `db:"id" json:"id"`
	ExternalID     string       `db:"external_id" json:"external_id"`
	DisplayName    string       `db:"display_name" json:"display_name"`
	AvatarRef      string       `db:"avatar_ref" json:"avatar_ref,omitempty"`
	Rank           int          `db:"rank" json:"rank"`
	TotalGames     int          `db:"total_games" json:"total_games"`
	TotalGamesWon  int          `db:"total_games_won" json:"total_games_won"`
	TotalWinnings  float64      `db:"total_winnings" json:"total_winnings"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	LastActive     sql.NullTime `db:"last_active" json:"last_active,omitempty"`
}

// GameSession represents a match between two players
type GameSession struct {
	ID          int            `db:"id" json:"id"`
	SessionID   string         `db:"session_id" json:"session_id"`
	GameType    string         `db:"game_type" json:"game_type"`
	Player1ID   string         `db:"player1_id" json:"player1_id"`
	Player2ID   string         `db:"player2_id" json:"player2_id"`
	StakeAmount int            `db:"stake_amount" json:"stake_amount"`
	Status      string         `db:"status" json:"status"`
	WinnerID    sql.NullString `db:"winner_id" json:"winner_id,omitempty"`
	EndReason   sql.NullString `db:"end_reason" json:"end_reason,omitempty"`
	TotalPot    sql.NullInt64  `db:"total_pot" json:"total_pot,omitempty"`
	PlatformFee sql.NullInt64  `db:"platform_fee" json:"platform_fee,omitempty"`
	Winnings    sql.NullInt64  `db:"winnings" json:"winnings,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	CompletedAt sql.NullTime   `db:"completed_at" json:"completed_at,omitempty"`
}

// Account is a ledger account (system or per-player)
type Account struct {
	ID            int            `db:"id" json:"id"`
	AccountType   string         `db:"account_type" json:"account_type"`
	OwnerPlayerID sql.NullString `db:"owner_player_id" json:"owner_player_id,omitempty"`
	Balance       float64        `db:"balance" json:"balance"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// AccountTransaction is one double-entry ledger row
type AccountTransaction struct {
	ID              int            `db:"id" json:"id"`
	DebitAccountID  int            `db:"debit_account_id" json:"debit_account_id"`
	CreditAccountID int            `db:"credit_account_id" json:"credit_account_id"`
	Amount          float64        `db:"amount" json:"amount"`
	ReferenceType   string         `db:"reference_type" json:"reference_type"`
	ReferenceID     sql.NullString `db:"reference_id" json:"reference_id,omitempty"`
	Description     string         `db:"description" json:"description,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// EscrowLedger tracks the lifecycle of staked funds per session
type EscrowLedger struct {
	ID        int       `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	EntryType string    `db:"entry_type" json:"entry_type"`
	PlayerID  string    `db:"player_id" json:"player_id"`
	Amount    float64   `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
