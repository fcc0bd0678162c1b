package service

import (
	"testing"

	chatmodel "RTChat/module/chat/model"
)

func msg(id, sender, content string) chatmodel.Message {
	return chatmodel.Message{ID: id, SenderID: sender, Content: content}
}

func receiptAt(msgID string) *chatmodel.ReadReceipt {
	return &chatmodel.ReadReceipt{LastReadMessageID: msgID}
}

func TestCountUnreadNoReceipt(t *testing.T) {
	msgs := []chatmodel.Message{
		msg("m1", "alice", "hi"),
		msg("m2", "bob", "hello"),
		msg("m3", "alice", "how are you"),
	}
	// 无回执：全部算未读，再剔除本人发的
	if got := CountUnread(msgs, nil, "bob"); got != 2 {
		t.Fatalf("CountUnread = %d, want 2", got)
	}
	if got := CountUnread(msgs, nil, "carol"); got != 3 {
		t.Fatalf("CountUnread for non-sender = %d, want 3", got)
	}
}

func TestCountUnreadAfterReceipt(t *testing.T) {
	msgs := []chatmodel.Message{
		msg("m1", "alice", "a"),
		msg("m2", "bob", "b"),
		msg("m3", "alice", "c"),
	}
	// bob 读到 m1：m2 是自己发的不计，m3 计 1
	if got := CountUnread(msgs, receiptAt("m1"), "bob"); got != 1 {
		t.Fatalf("CountUnread = %d, want 1", got)
	}
	// 读到末尾：0
	if got := CountUnread(msgs, receiptAt("m3"), "bob"); got != 0 {
		t.Fatalf("CountUnread at tail = %d, want 0", got)
	}
}

func TestCountUnreadDanglingReceipt(t *testing.T) {
	msgs := []chatmodel.Message{
		msg("m1", "alice", "a"),
		msg("m2", "alice", "b"),
	}
	// 回执指向的消息不在序列里：fail open，整个序列按未读处理
	if got := CountUnread(msgs, receiptAt("ghost"), "bob"); got != 2 {
		t.Fatalf("CountUnread with dangling receipt = %d, want 2", got)
	}
}

func TestCountUnreadEmptyConversation(t *testing.T) {
	if got := CountUnread(nil, nil, "bob"); got != 0 {
		t.Fatalf("CountUnread on empty = %d, want 0", got)
	}
	if got := CountUnread([]chatmodel.Message{}, receiptAt("m1"), "bob"); got != 0 {
		t.Fatalf("CountUnread on empty with receipt = %d, want 0", got)
	}
}

func TestUnreadMessagesKeepsOwnMessages(t *testing.T) {
	msgs := []chatmodel.Message{
		msg("m1", "alice", "a"),
		msg("m2", "bob", "b"),
		msg("m3", "alice", "c"),
	}
	// 消息体列表不做发送者过滤：回执后的全部返回
	got := UnreadMessagesOf(msgs, receiptAt("m1"))
	if len(got) != 2 {
		t.Fatalf("UnreadMessagesOf len = %d, want 2", len(got))
	}
	if got[0].ID != "m2" || got[1].ID != "m3" {
		t.Fatalf("UnreadMessagesOf order = [%s %s], want [m2 m3]", got[0].ID, got[1].ID)
	}
}

func TestUnreadMessagesBlanksDeleted(t *testing.T) {
	deleted := msg("m2", "bob", "secret")
	deleted.IsDeleted = true
	msgs := []chatmodel.Message{msg("m1", "alice", "a"), deleted}

	got := UnreadMessagesOf(msgs, nil)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].Content != "" {
		t.Fatalf("deleted message content leaked: %q", got[1].Content)
	}
	if !got[1].IsDeleted {
		t.Fatal("deleted flag lost in display form")
	}
}

// 典型三消息场景：A 发 m1，B 发 m2，A 发 m3，B 读到 m1。
func TestUnreadScenarioTwoParty(t *testing.T) {
	msgs := []chatmodel.Message{
		msg("m1", "userA", "hello"),
		msg("m2", "userB", "hi there"),
		msg("m3", "userA", "how's it going"),
	}
	receipt := receiptAt("m1")

	if got := CountUnread(msgs, receipt, "userB"); got != 1 {
		t.Fatalf("userB unread count = %d, want 1 (own m2 excluded)", got)
	}
	unread := UnreadMessagesOf(msgs, receipt)
	if len(unread) != 2 {
		t.Fatalf("unread messages len = %d, want 2 (m2 and m3, no sender filter)", len(unread))
	}
}
