package memory

import (
	"testing"
	"time"
)

func TestRoomStoreLifecycle(t *testing.T) {
	store := NewRoomStore()
	now := time.Now()

	room := store.GetOrCreate("ABCD", now)
	if room == nil {
		t.Fatalf("expected room")
	}
	if again := store.GetOrCreate("ABCD", now.Add(time.Minute)); again != room {
		t.Fatalf("expected the same room on second GetOrCreate")
	}
	if _, ok := store.Get("ABCD"); !ok {
		t.Fatalf("expected room present")
	}
	if !room.LastActivity().Equal(now) {
		t.Fatalf("expected last activity %v, got %v", now, room.LastActivity())
	}

	store.GetOrCreate("WXYZ", now)
	if codes := store.Codes(); len(codes) != 2 || codes[0] != "ABCD" || codes[1] != "WXYZ" {
		t.Fatalf("unexpected codes %v", codes)
	}

	store.Delete("ABCD")
	if _, ok := store.Get("ABCD"); ok {
		t.Fatalf("expected room removed")
	}
}
