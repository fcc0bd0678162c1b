package service

import (
	"context"

	"RTChat/module/chat/event"
	chatmodel "RTChat/module/chat/model"
	usersvc "RTChat/module/user/service"
	"RTChat/tools/errs"
)

// 用户档案缺失时输入指示的兜底显示名。
const typingNameFallback = "Someone"

// SetTyping 覆盖写 (conversation, caller) 的输入指示，过期时间 = now + 窗口。
// 不留历史，近邻并发最后写入者胜出。
func (s *Service) SetTyping(ctx context.Context, caller *chatmodel.User, conversationID string) error {
	if _, err := s.AssertMember(ctx, conversationID, caller); err != nil {
		return err
	}
	expiresAt := s.now().Add(s.typingWindow).UnixMilli()
	if err := s.store.UpsertTyping(ctx, conversationID, caller.ID, expiresAt); err != nil {
		return errs.WrapMsg(err, "upsert typing indicator")
	}

	s.publish(ctx, event.Event{
		Type:           event.TypeTypingSet,
		ConversationID: conversationID,
		Payload: map[string]any{
			"sender_id":  caller.ID,
			"name":       caller.Name,
			"expires_at": expiresAt,
		},
	})
	return nil
}

// ListTyping 未过期的输入指示，带显示名。包含调用者自己的记录——
// 过滤自身是展示层的事。
func (s *Service) ListTyping(ctx context.Context, caller *chatmodel.User, conversationID string) ([]chatmodel.TypingUser, error) {
	if _, err := s.AssertMember(ctx, conversationID, caller); err != nil {
		return nil, err
	}
	active, err := s.store.ListActiveTyping(ctx, conversationID, s.nowMS())
	if err != nil {
		return nil, errs.WrapMsg(err, "list typing indicators")
	}

	idList := make([]string, 0, len(active))
	for _, t := range active {
		idList = append(idList, t.UserID)
	}
	users, err := usersvc.GetByIDs(ctx, idList)
	if err != nil {
		return nil, errs.WrapMsg(err, "load typing users")
	}
	return EnrichTyping(active, users), nil
}

// EnrichTyping 纯函数：指示记录 + 档案表 -> 展示视图。
func EnrichTyping(active []chatmodel.TypingIndicator, users map[string]chatmodel.User) []chatmodel.TypingUser {
	out := make([]chatmodel.TypingUser, len(active))
	for i, t := range active {
		name := typingNameFallback
		if u, ok := users[t.UserID]; ok && u.Name != "" {
			name = u.Name
		}
		out[i] = chatmodel.TypingUser{
			UserID:    t.UserID,
			Name:      name,
			ExpiresAt: t.ExpiresAt,
		}
	}
	return out
}
