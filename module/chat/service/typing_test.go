package service

import (
	"testing"

	chatmodel "RTChat/module/chat/model"
)

func TestEnrichTypingNames(t *testing.T) {
	active := []chatmodel.TypingIndicator{
		{UserID: "alice", ExpiresAt: 1000},
		{UserID: "ghost", ExpiresAt: 2000},
	}
	users := map[string]chatmodel.User{
		"alice": {ID: "alice", Name: "Alice"},
	}

	got := EnrichTyping(active, users)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Alice" {
		t.Fatalf("name = %q, want Alice", got[0].Name)
	}
	// 档案缺失兜底
	if got[1].Name != "Someone" {
		t.Fatalf("fallback name = %q, want Someone", got[1].Name)
	}
	if got[1].ExpiresAt != 2000 {
		t.Fatalf("expires_at = %d, want 2000", got[1].ExpiresAt)
	}
}

func TestEnrichTypingEmptyName(t *testing.T) {
	active := []chatmodel.TypingIndicator{{UserID: "u1"}}
	users := map[string]chatmodel.User{"u1": {ID: "u1", Name: ""}}
	got := EnrichTyping(active, users)
	if got[0].Name != "Someone" {
		t.Fatalf("empty profile name should fall back, got %q", got[0].Name)
	}
}
