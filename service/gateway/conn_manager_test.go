package gateway

import (
	"sync"
	"testing"
	"time"
)

func testManager(clock func() time.Time) *ConnManager {
	return NewConnManager(ManagerConf{
		ConnTTL:    time.Minute,
		SweepEvery: time.Hour, // 测试手动触发清理
		SendQueue:  4,
		Clock:      clock,
	})
}

func TestAddRemove(t *testing.T) {
	m := testManager(nil)
	defer m.Close()

	c1 := m.Add("alice", nil)
	c2 := m.Add("alice", nil)
	if m.CountFor("alice") != 2 {
		t.Fatalf("count = %d, want 2 (multi-device)", m.CountFor("alice"))
	}
	if c1.ConnID == c2.ConnID {
		t.Fatal("conn ids must be unique")
	}

	m.Remove(c1.ConnID)
	if m.CountFor("alice") != 1 {
		t.Fatalf("count after remove = %d, want 1", m.CountFor("alice"))
	}
	m.Remove(c1.ConnID) // 重复摘除安全
	m.Remove(c2.ConnID)
	if m.CountFor("alice") != 0 {
		t.Fatal("expected no connections left")
	}
}

func TestSendToUserFanout(t *testing.T) {
	m := testManager(nil)
	defer m.Close()

	c1 := m.Add("bob", nil)
	c2 := m.Add("bob", nil)

	if sent := m.SendToUser("bob", []byte("frame")); sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}
	if sent := m.SendToUser("nobody", []byte("frame")); sent != 0 {
		t.Fatalf("sent to unknown user = %d, want 0", sent)
	}

	if got := <-c1.Send; string(got) != "frame" {
		t.Fatalf("c1 got %q", got)
	}
	if got := <-c2.Send; string(got) != "frame" {
		t.Fatalf("c2 got %q", got)
	}
}

func TestSendToUserFullQueueDrops(t *testing.T) {
	m := testManager(nil)
	defer m.Close()

	m.Add("carol", nil)
	for i := 0; i < 4; i++ {
		if sent := m.SendToUser("carol", []byte("x")); sent != 1 {
			t.Fatalf("fill %d: sent = %d", i, sent)
		}
	}
	// 队列满：丢帧而不是阻塞
	if sent := m.SendToUser("carol", []byte("overflow")); sent != 0 {
		t.Fatalf("overflow sent = %d, want 0", sent)
	}
}

func TestSweepExpired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := testManager(clock)
	defer m.Close()

	c := m.Add("dave", nil)
	m.sweepExpired()
	if m.CountFor("dave") != 1 {
		t.Fatal("fresh connection must survive the sweep")
	}

	now = now.Add(2 * time.Minute)
	m.sweepExpired()
	if m.CountFor("dave") != 0 {
		t.Fatal("expired connection must be swept")
	}
	if _, ok := <-c.Send; ok {
		t.Fatal("send queue should be closed after sweep")
	}
}

func TestPushAfterRemove(t *testing.T) {
	m := testManager(nil)
	defer m.Close()

	c := m.Add("frank", nil)
	m.Remove(c.ConnID)

	// 订阅回调可能在摘除后才送达，投递必须安全落空
	if c.Push([]byte("late frame")) {
		t.Fatal("push after remove must report failure")
	}
	if c.Push([]byte("late frame 2")) {
		t.Fatal("repeated late push must keep failing")
	}
}

func TestPushAfterSweep(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := testManager(clock)
	defer m.Close()

	c := m.Add("grace", nil)
	now = now.Add(2 * time.Minute)
	m.sweepExpired()

	if c.Push([]byte("frame")) {
		t.Fatal("push to a swept connection must report failure")
	}
}

func TestPushCloseRace(t *testing.T) {
	m := testManager(nil)
	defer m.Close()

	c := m.Add("heidi", nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Push([]byte("x"))
			}
		}()
	}
	m.Remove(c.ConnID)
	wg.Wait()
}

func TestTouchExtendsTTL(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := testManager(clock)
	defer m.Close()

	c := m.Add("erin", nil)

	now = now.Add(50 * time.Second)
	m.Touch(c.ConnID) // 续期到 now+1min

	now = now.Add(30 * time.Second) // 距 Add 已 80s，但距 Touch 只有 30s
	m.sweepExpired()
	if m.CountFor("erin") != 1 {
		t.Fatal("touched connection must not expire")
	}
}
