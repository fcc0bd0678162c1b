package model

import (
	"reflect"
	"testing"
)

func TestCanonicalParticipants(t *testing.T) {
	got := CanonicalParticipants("bob", "alice", "bob", "", "carol")
	want := []string{"alice", "bob", "carol"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CanonicalParticipants = %v, want %v", got, want)
	}
}

func TestCanonicalParticipantsOrderInsensitive(t *testing.T) {
	a := CanonicalParticipants("u2", "u1")
	b := CanonicalParticipants("u1", "u2")
	if ParticipantKeyOf(a) != ParticipantKeyOf(b) {
		t.Fatalf("keys differ: %q vs %q", ParticipantKeyOf(a), ParticipantKeyOf(b))
	}
}

func TestParticipantKeyOf(t *testing.T) {
	if got := ParticipantKeyOf([]string{"a", "b"}); got != "a|b" {
		t.Fatalf("key = %q, want a|b", got)
	}
	if got := ParticipantKeyOf(nil); got != "" {
		t.Fatalf("empty key = %q, want empty", got)
	}
}

func TestHasParticipant(t *testing.T) {
	conv := Conversation{ParticipantIDs: []string{"a", "b"}}
	if !conv.HasParticipant("a") {
		t.Fatal("expected member a")
	}
	if conv.HasParticipant("z") {
		t.Fatal("z is not a member")
	}
}

func TestMessageForDisplay(t *testing.T) {
	m := Message{ID: "m1", Content: "hello", IsDeleted: false}
	if got := m.ForDisplay(); got.Content != "hello" {
		t.Fatalf("live message content = %q", got.Content)
	}

	m.IsDeleted = true
	got := m.ForDisplay()
	if got.Content != "" {
		t.Fatalf("deleted message content leaked: %q", got.Content)
	}
	if m.Content != "hello" {
		t.Fatal("ForDisplay must not mutate the receiver")
	}
}

func TestIsAllowedEmoji(t *testing.T) {
	for _, e := range AllowedEmojis {
		if !IsAllowedEmoji(e) {
			t.Fatalf("allowlisted emoji %q rejected", e)
		}
	}
	for _, e := range []string{"", "x", "🎉", "👍🏻"} {
		if IsAllowedEmoji(e) {
			t.Fatalf("emoji %q should be rejected", e)
		}
	}
}

func TestSortUsersByCreatedAt(t *testing.T) {
	users := []User{
		{ID: "c", CreatedAt: 300},
		{ID: "a", CreatedAt: 100},
		{ID: "b2", CreatedAt: 200},
		{ID: "b1", CreatedAt: 200},
	}
	SortUsersByCreatedAt(users)
	wantIDs := []string{"a", "b1", "b2", "c"}
	for i, want := range wantIDs {
		if users[i].ID != want {
			t.Fatalf("pos %d = %s, want %s", i, users[i].ID, want)
		}
	}
}
