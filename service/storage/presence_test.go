package storage

import (
	"os"
	"testing"
	"time"

	"RTChat/tools/ids"
)

// 集成测试：需要可用的 Redis。
//
//	RTCHAT_TEST_REDIS_ADDR=127.0.0.1:6379 go test ./service/storage/
func requireTestRedis(t *testing.T) {
	t.Helper()
	addr := os.Getenv("RTCHAT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RTCHAT_TEST_REDIS_ADDR not set")
	}
	if rdb == nil {
		if err := InitRedis(Config{Addr: addr, DB: 9}); err != nil {
			t.Fatalf("redis init: %v", err)
		}
	}
}

func TestPresenceRoundtrip(t *testing.T) {
	requireTestRedis(t)

	user := "presence-test-" + ids.GenerateString()
	now := time.Now()

	if err := PresenceSet(user, true, now); err != nil {
		t.Fatalf("set online: %v", err)
	}
	st, err := PresenceGet(user)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !st.IsOnline {
		t.Fatal("expected online")
	}
	if st.LastSeen != now.UnixMilli() {
		t.Fatalf("last_seen = %d, want %d", st.LastSeen, now.UnixMilli())
	}

	if err := PresenceSet(user, false, now.Add(time.Second)); err != nil {
		t.Fatalf("set offline: %v", err)
	}
	st, err = PresenceGet(user)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.IsOnline {
		t.Fatal("expected offline")
	}
	// 下线也推进 last_seen
	if st.LastSeen != now.Add(time.Second).UnixMilli() {
		t.Fatalf("last_seen not advanced: %d", st.LastSeen)
	}
}

func TestPresenceUnknownUser(t *testing.T) {
	requireTestRedis(t)

	st, err := PresenceGet("presence-test-never-" + ids.GenerateString())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.IsOnline || st.LastSeen != 0 {
		t.Fatalf("unknown user must read as offline: %+v", st)
	}
}

func TestPresenceOnlineSet(t *testing.T) {
	requireTestRedis(t)

	user := "presence-test-" + ids.GenerateString()
	if err := PresenceSet(user, true, time.Now()); err != nil {
		t.Fatalf("set: %v", err)
	}

	online, err := PresenceListOnline()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, st := range online {
		if st.UserID == user {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("online user missing from online set")
	}

	if err := PresenceSet(user, false, time.Now()); err != nil {
		t.Fatalf("set offline: %v", err)
	}
	online, err = PresenceListOnline()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, st := range online {
		if st.UserID == user {
			t.Fatal("offline user still in online set")
		}
	}
}
