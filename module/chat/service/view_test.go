package service

import (
	"testing"

	chatmodel "RTChat/module/chat/model"
)

func userMap(users ...chatmodel.User) map[string]chatmodel.User {
	m := make(map[string]chatmodel.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}

func TestComposeTitleGroup(t *testing.T) {
	conv := chatmodel.Conversation{IsGroup: true, GroupName: "Weekend Plans"}
	if got := ComposeTitle(conv, "me", nil); got != "Weekend Plans" {
		t.Fatalf("title = %q, want group name", got)
	}

	conv.GroupName = ""
	if got := ComposeTitle(conv, "me", nil); got != "Group" {
		t.Fatalf("empty group name title = %q, want Group", got)
	}
}

func TestComposeTitleDirect(t *testing.T) {
	conv := chatmodel.Conversation{ParticipantIDs: []string{"me", "other"}}
	users := userMap(
		chatmodel.User{ID: "me", Name: "Me"},
		chatmodel.User{ID: "other", Name: "Alice"},
	)
	if got := ComposeTitle(conv, "me", users); got != "Alice" {
		t.Fatalf("title = %q, want other participant name", got)
	}
}

func TestComposeTitleDirectFallbacks(t *testing.T) {
	conv := chatmodel.Conversation{ParticipantIDs: []string{"me", "other"}}

	// 对端档案缺失
	if got := ComposeTitle(conv, "me", userMap(chatmodel.User{ID: "me", Name: "Me"})); got != "Direct Message" {
		t.Fatalf("missing profile title = %q, want Direct Message", got)
	}
	// 对端档案无名
	users := userMap(chatmodel.User{ID: "other", Name: ""})
	if got := ComposeTitle(conv, "me", users); got != "Direct Message" {
		t.Fatalf("empty name title = %q, want Direct Message", got)
	}
}
