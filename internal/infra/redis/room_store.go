package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/infra/memory"
)

// DefaultMarkerTimeout bounds each liveness marker write.
const DefaultMarkerTimeout = 500 * time.Millisecond

// RoomStore is the in-process room registry plus a Redis liveness marker
// per room (with a TTL) so other instances and operators can see which
// codes are taken. Marker writes happen outside the registry lock, so a
// slow Redis never delays lookups of other rooms.
type RoomStore struct {
	*memory.RoomStore
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		RoomStore: memory.NewRoomStore(),
		client:    client,
		ttl:       ttl,
		timeout:   DefaultMarkerTimeout,
	}
}

func (s *RoomStore) GetOrCreate(code string, now time.Time) *app.Room {
	if room, ok := s.RoomStore.Get(code); ok {
		return room
	}
	room := s.RoomStore.GetOrCreate(code, now)
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	// best effort
	_ = s.client.Set(ctx, LiveKey(code), now.UTC().Format(time.RFC3339), s.ttl).Err()
	return room
}

func (s *RoomStore) Delete(code string) {
	s.RoomStore.Delete(code)
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_ = s.client.Del(ctx, LiveKey(code)).Err()
}

// Touch refreshes the liveness marker of every local room. It is meant to
// run on the reaper's cadence so markers of active rooms never lapse.
func (s *RoomStore) Touch(ctx context.Context) error {
	codes := s.Codes()
	if s.ttl <= 0 || len(codes) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, code := range codes {
		pipe.Expire(ctx, LiveKey(code), s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// LiveKey is the Redis key marking a room as live.
func LiveKey(code string) string {
	return "room:live:" + code
}
