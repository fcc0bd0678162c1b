package service

import (
	"context"

	chatmodel "RTChat/module/chat/model"
	usersvc "RTChat/module/user/service"
	"RTChat/tools/errs"
)

// 直连会话/群聊标题缺省值。
const (
	titleGroupFallback  = "Group"
	titleDirectFallback = "Direct Message"
)

// ConversationView 客户端会话列表的一行：标题、成员档案、
// 最新消息、未读数。每次调用全量重算，不做增量缓存。
type ConversationView struct {
	chatmodel.Conversation
	Title        string              `json:"title"`
	Participants []chatmodel.User    `json:"participants"`
	LastMessage  *chatmodel.Message  `json:"last_message,omitempty"`
	UnreadCount  int                 `json:"unread_count"`
}

// ListConversations 会话列表视图，updated_at 降序（存储层已排好）。
func (s *Service) ListConversations(ctx context.Context, caller *chatmodel.User) ([]ConversationView, error) {
	convs, err := s.store.ListForUser(ctx, caller.ID)
	if err != nil {
		return nil, errs.WrapMsg(err, "list conversations")
	}

	// 一次取齐涉及的所有档案
	idSet := make(map[string]struct{})
	for _, c := range convs {
		for _, id := range c.ParticipantIDs {
			idSet[id] = struct{}{}
		}
	}
	idList := make([]string, 0, len(idSet))
	for id := range idSet {
		idList = append(idList, id)
	}
	users, err := usersvc.GetByIDs(ctx, idList)
	if err != nil {
		return nil, errs.WrapMsg(err, "load participants")
	}

	out := make([]ConversationView, len(convs))
	for i, conv := range convs {
		view := ConversationView{
			Conversation: conv,
			Title:        ComposeTitle(conv, caller.ID, users),
			Participants: make([]chatmodel.User, 0, len(conv.ParticipantIDs)),
		}
		for _, id := range conv.ParticipantIDs {
			if u, ok := users[id]; ok {
				view.Participants = append(view.Participants, u)
			}
		}

		last, err := s.store.LastMessage(ctx, conv.ID)
		if err != nil {
			return nil, errs.WrapMsg(err, "load last message", "conversation", conv.ID)
		}
		if last != nil {
			display := last.ForDisplay()
			view.LastMessage = &display
		}

		msgs, receipt, err := s.loadUnreadInputs(ctx, conv.ID, caller.ID)
		if err != nil {
			return nil, err
		}
		view.UnreadCount = CountUnread(msgs, receipt, caller.ID)

		out[i] = view
	}
	return out, nil
}

// ComposeTitle 纯函数：群聊取群名（空则 "Group"）；单聊取对端显示名
// （档案缺失或无名则 "Direct Message"）。
func ComposeTitle(conv chatmodel.Conversation, callerID string, users map[string]chatmodel.User) string {
	if conv.IsGroup {
		if conv.GroupName != "" {
			return conv.GroupName
		}
		return titleGroupFallback
	}
	for _, id := range conv.ParticipantIDs {
		if id == callerID {
			continue
		}
		if u, ok := users[id]; ok && u.Name != "" {
			return u.Name
		}
	}
	return titleDirectFallback
}
