package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/asapbuyco-source/Katika-sub000/internal/accounts"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Store is the durable side of the orchestrator: session rows and the escrow
// ledger in Postgres, session snapshots and completion events in Redis. Every
// method is best-effort and safe with a nil DB or Redis client; the
// orchestration core never depends on it succeeding.
type Store struct {
	db          *sqlx.DB
	rdb         *redis.Client
	snapshotTTL time.Duration
}

// NewStore creates a Store. db and rdb may each be nil.
func NewStore(db *sqlx.DB, rdb *redis.Client) *Store {
	return &Store{db: db, rdb: rdb, snapshotTTL: time.Hour}
}

// SessionCreated persists a game_sessions row for a new (or rematched) match
func (st *Store) SessionCreated(rec SessionRecord) {
	if st.db == nil {
		return
	}
	_, err := st.db.Exec(`INSERT INTO game_sessions (session_id, game_type, player1_id, player2_id, stake_amount, status, created_at) VALUES ($1,$2,$3,$4,$5,$6,NOW())`,
		rec.SessionID, string(rec.GameType), rec.Player1ID, rec.Player2ID, rec.Stake, string(StatusActive))
	if err != nil {
		log.Printf("[DB] failed to insert game_session %s: %v", rec.SessionID, err)
	}
}

// SessionCompleted settles the match: the pot moves from escrow to the
// winner's winnings account and the platform fee account, the session row is
// closed, and a completion event is published for external consumers.
func (st *Store) SessionCompleted(rec CompletionRecord) {
	st.settle(rec)
	st.publishCompletion(rec)
}

func (st *Store) settle(rec CompletionRecord) {
	if st.db == nil {
		return
	}

	if _, err := st.db.Exec(`UPDATE game_sessions SET status=$1, winner_id=$2, end_reason=$3, total_pot=$4, platform_fee=$5, winnings=$6, completed_at=NOW() WHERE session_id=$7 AND status=$8`,
		string(StatusCompleted), rec.WinnerID, rec.Reason, rec.Settlement.TotalPot, rec.Settlement.PlatformFee, rec.Settlement.Winnings, rec.SessionID, string(StatusActive)); err != nil {
		log.Printf("[DB] failed to close game_session %s: %v", rec.SessionID, err)
	}

	tx, err := st.db.Beginx()
	if err != nil {
		log.Printf("[DB] failed to begin settlement tx for session %s: %v", rec.SessionID, err)
		return
	}

	// Idempotency: one payout per session per completion
	var cnt int
	if err := tx.Get(&cnt, `SELECT COUNT(*) FROM escrow_ledger WHERE session_id=$1 AND entry_type='PAYOUT'`, rec.SessionID); err != nil {
		log.Printf("[DB] failed to check ledger for session %s: %v", rec.SessionID, err)
		tx.Rollback()
		return
	}
	if cnt > 0 {
		log.Printf("[DB] payout already processed for session %s", rec.SessionID)
		tx.Rollback()
		return
	}

	escrowAcc, err1 := accounts.GetOrCreateAccount(st.db, accounts.AccountEscrow, nil)
	winnerAcc, err2 := accounts.GetOrCreateAccount(st.db, accounts.AccountPlayerWinnings, &rec.WinnerID)
	platformAcc, err3 := accounts.GetOrCreateAccount(st.db, accounts.AccountPlatform, nil)
	if err1 != nil || err2 != nil || err3 != nil {
		log.Printf("[DB] failed to resolve accounts for session %s: %v %v %v", rec.SessionID, err1, err2, err3)
		tx.Rollback()
		return
	}

	ref := sql.NullString{String: rec.SessionID, Valid: true}
	if err := accounts.Transfer(tx, escrowAcc.ID, winnerAcc.ID, float64(rec.Settlement.Winnings), "SESSION", ref, "Match winnings"); err != nil {
		log.Printf("[DB] failed to transfer winnings for session %s: %v", rec.SessionID, err)
		tx.Rollback()
		return
	}
	if err := accounts.Transfer(tx, escrowAcc.ID, platformAcc.ID, float64(rec.Settlement.PlatformFee), "SESSION", ref, "Platform fee"); err != nil {
		log.Printf("[DB] failed to transfer platform fee for session %s: %v", rec.SessionID, err)
		tx.Rollback()
		return
	}
	if _, err := tx.Exec(`INSERT INTO escrow_ledger (session_id, entry_type, player_id, amount, created_at) VALUES ($1,'PAYOUT',$2,$3,NOW())`,
		rec.SessionID, rec.WinnerID, float64(rec.Settlement.Winnings)); err != nil {
		log.Printf("[DB] failed to insert ledger row for session %s: %v", rec.SessionID, err)
		tx.Rollback()
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[DB] failed to commit settlement for session %s: %v", rec.SessionID, err)
		tx.Rollback()
		return
	}

	// Winner stats, outside the money tx
	if _, err := st.db.Exec(`UPDATE players SET total_games_won = total_games_won + 1, total_winnings = total_winnings + $1 WHERE external_id = $2`,
		float64(rec.Settlement.Winnings), rec.WinnerID); err != nil {
		log.Printf("[DB] failed to update winner stats for session %s: %v", rec.SessionID, err)
	}

	log.Printf("[DB] settlement recorded for session %s: winner=%s winnings=%d fee=%d", rec.SessionID, rec.WinnerID, rec.Settlement.Winnings, rec.Settlement.PlatformFee)
}

// publishCompletion announces the completed match on the game_events channel
func (st *Store) publishCompletion(rec CompletionRecord) {
	if st.rdb == nil {
		return
	}
	payload := map[string]interface{}{
		"type":       "match_completed",
		"session_id": rec.SessionID,
		"game_type":  rec.GameType,
		"winner_id":  rec.WinnerID,
		"loser_id":   rec.LoserID,
		"reason":     rec.Reason,
		"financials": rec.Settlement,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[REDIS] failed to marshal completion event for session %s: %v", rec.SessionID, err)
		return
	}
	if err := st.rdb.Publish(context.Background(), "game_events", b).Err(); err != nil {
		log.Printf("[REDIS] publish match_completed failed for session %s: %v", rec.SessionID, err)
	}
}

// SaveSnapshot caches the latest session snapshot with a TTL
func (st *Store) SaveSnapshot(sessionID string, snapshot map[string]interface{}) {
	if st.rdb == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("[REDIS] failed to marshal snapshot for session %s: %v", sessionID, err)
		return
	}
	key := "session:" + sessionID + ":state"
	if err := st.rdb.SetEx(context.Background(), key, data, st.snapshotTTL).Err(); err != nil {
		log.Printf("[REDIS] failed to save snapshot for session %s: %v", sessionID, err)
	}
}
