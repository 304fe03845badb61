package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-room-service/internal/domain"
)

// Scoreboard mirrors room scores into a Redis ZSET (room:{code}:lb) with
// team names in a companion hash, so dashboards can read standings
// without talking to the game process.
type Scoreboard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreboard(client *redis.Client, ttl time.Duration) *Scoreboard {
	return &Scoreboard{client: client, ttl: ttl}
}

func scoresKey(roomCode string) string {
	return fmt.Sprintf("room:%s:lb", roomCode)
}

func namesKey(roomCode string) string {
	return fmt.Sprintf("room:%s:names", roomCode)
}

// PublishScores replaces the mirrored standings of a room.
func (s *Scoreboard) PublishScores(ctx context.Context, roomCode string, entries []domain.ScoreEntry) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, scoresKey(roomCode), namesKey(roomCode))
	if len(entries) > 0 {
		members := make([]redis.Z, 0, len(entries))
		names := make(map[string]any, len(entries))
		for _, e := range entries {
			members = append(members, redis.Z{Score: float64(e.Score), Member: e.TeamID})
			names[e.TeamID] = e.Name
		}
		pipe.ZAdd(ctx, scoresKey(roomCode), members...)
		pipe.HSet(ctx, namesKey(roomCode), names)
		if s.ttl > 0 {
			pipe.Expire(ctx, scoresKey(roomCode), s.ttl)
			pipe.Expire(ctx, namesKey(roomCode), s.ttl)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Top returns up to limit rows, best first.
func (s *Scoreboard) Top(ctx context.Context, roomCode string, limit int) ([]domain.ScoreEntry, error) {
	results, err := s.client.ZRevRangeWithScores(ctx, scoresKey(roomCode), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	names, err := s.client.HGetAll(ctx, namesKey(roomCode)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ScoreEntry, len(results))
	for i, z := range results {
		id, _ := z.Member.(string)
		entries[i] = domain.ScoreEntry{TeamID: id, Name: names[id], Score: int(z.Score)}
	}
	return entries, nil
}

// Rank returns the 1-indexed position of a team, or -1 when unknown.
func (s *Scoreboard) Rank(ctx context.Context, roomCode, teamID string) (int64, error) {
	rank, err := s.client.ZRevRank(ctx, scoresKey(roomCode), teamID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err
}

// Clear removes a room's mirrored standings.
func (s *Scoreboard) Clear(ctx context.Context, roomCode string) error {
	return s.client.Del(ctx, scoresKey(roomCode), namesKey(roomCode)).Err()
}
