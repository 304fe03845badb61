package redis

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRoomStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewRoomStore(newClient(mr), time.Minute)

	room := store.GetOrCreate("ABCD", time.Now())
	if !mr.Exists("room:live:ABCD") {
		t.Fatalf("expected redis key to be set")
	}
	if again := store.GetOrCreate("ABCD", time.Now()); again != room {
		t.Fatalf("expected the same room instance")
	}

	mr.FastForward(50 * time.Second)
	if err := store.Touch(context.Background()); err != nil {
		t.Fatalf("touch: %v", err)
	}
	mr.FastForward(50 * time.Second)
	if !mr.Exists("room:live:ABCD") {
		t.Fatalf("expected touch to extend the marker")
	}

	store.Delete("ABCD")
	if mr.Exists("room:live:ABCD") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("ABCD"); ok {
		t.Fatalf("expected room removed")
	}
}

func TestRoomStoreLookupsIgnoreSlowRedis(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			// accept and never answer
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		for _, conn := range conns {
			conn.Close()
		}
		mu.Unlock()
	})

	client := redis.NewClient(&redis.Options{Addr: ln.Addr().String(), MaxRetries: -1, ReadTimeout: time.Second})
	defer client.Close()
	store := NewRoomStore(client, time.Minute)
	store.timeout = 200 * time.Millisecond

	store.GetOrCreate("LIVE", time.Now())

	done := make(chan struct{})
	go func() {
		store.GetOrCreate("NEW", time.Now())
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	if _, ok := store.Get("LIVE"); !ok {
		t.Fatalf("expected LIVE to be registered")
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("lookup waited %v on a marker write", elapsed)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("marker write ignored its timeout")
	}
	if _, ok := store.Get("NEW"); !ok {
		t.Fatalf("expected NEW to be registered despite the marker failure")
	}
}
