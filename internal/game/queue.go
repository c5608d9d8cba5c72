package game

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// QueueEntry is one waiting player in a matchmaking bucket
type QueueEntry struct {
	Profile  PlayerProfile
	JoinedAt time.Time
}

// QueueManager holds FIFO waiting lists keyed by gameType:stake.
// A player id appears in at most one entry across all buckets.
type QueueManager struct {
	mu      sync.Mutex
	buckets map[string][]QueueEntry
}

// NewQueueManager creates an empty QueueManager
func NewQueueManager() *QueueManager {
	return &QueueManager{buckets: make(map[string][]QueueEntry)}
}

func bucketKey(gameType GameType, stake int) string {
	return fmt.Sprintf("%s:%d", gameType, stake)
}

// Enqueue adds a player to the bucket for (gameType, stake). If an opponent
// is already waiting there, the oldest entry is popped and returned with
// matched=true. Re-enqueue is idempotent: any prior entry for the same player
// id, in any bucket, is removed first.
func (q *QueueManager) Enqueue(profile PlayerProfile, gameType GameType, stake int) (opponent PlayerProfile, matched bool, err error) {
	if profile.ID == "" {
		return PlayerProfile{}, false, errors.New("player has no resolvable identity")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.removeLocked(profile.ID)

	key := bucketKey(gameType, stake)
	if bucket := q.buckets[key]; len(bucket) > 0 {
		// Strict FIFO: pop the oldest waiter
		head := bucket[0]
		q.buckets[key] = bucket[1:]
		if len(q.buckets[key]) == 0 {
			delete(q.buckets, key)
		}
		return head.Profile, true, nil
	}

	q.buckets[key] = append(q.buckets[key], QueueEntry{Profile: profile, JoinedAt: time.Now()})
	return PlayerProfile{}, false, nil
}

// Remove deletes any queue entry for the player id and reports whether one existed
func (q *QueueManager) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.removeLocked(playerID)
}

func (q *QueueManager) removeLocked(playerID string) bool {
	for key, bucket := range q.buckets {
		for i, entry := range bucket {
			if entry.Profile.ID == playerID {
				q.buckets[key] = append(bucket[:i], bucket[i+1:]...)
				if len(q.buckets[key]) == 0 {
					delete(q.buckets, key)
				}
				return true
			}
		}
	}
	return false
}

// Contains reports whether the player id is waiting in any bucket
func (q *QueueManager) Contains(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, bucket := range q.buckets {
		for _, entry := range bucket {
			if entry.Profile.ID == playerID {
				return true
			}
		}
	}
	return false
}

// Depths returns the number of waiting players per bucket
func (q *QueueManager) Depths() map[string]int {
	q.mu.Lock()
	defer q.mu.Unlock()
	depths := make(map[string]int, len(q.buckets))
	for key, bucket := range q.buckets {
		depths[key] = len(bucket)
	}
	return depths
}
