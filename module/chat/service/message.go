package service

import (
	"context"
	"strings"

	"RTChat/module/chat/event"
	chatmodel "RTChat/module/chat/model"
	"RTChat/tools/errs"
	"RTChat/tools/ids"
)

// SendMessage 鉴权 -> 落消息 -> 推进会话活跃时间 -> 尽力发布事件。
// 校验全部发生在写入之前，失败不会留下半截数据。
func (s *Service) SendMessage(ctx context.Context, caller *chatmodel.User, conversationID, content string) (*chatmodel.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errs.ErrArgs.WrapMsg("content cannot be empty")
	}
	if _, err := s.AssertMember(ctx, conversationID, caller); err != nil {
		return nil, err
	}

	now := s.nowMS()
	msg := &chatmodel.Message{
		ID:             ids.GenerateString(),
		ConversationID: conversationID,
		SenderID:       caller.ID,
		Content:        content,
		IsDeleted:      false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.InsertMessage(ctx, msg); err != nil {
		return nil, errs.WrapMsg(err, "insert message")
	}
	if err := s.store.TouchUpdatedAt(ctx, conversationID, now); err != nil {
		return nil, errs.WrapMsg(err, "touch conversation")
	}

	s.publish(ctx, event.Event{
		Type:           event.TypeMessageCreated,
		ConversationID: conversationID,
		Payload: map[string]any{
			"message_id": msg.ID,
			"sender_id":  msg.SenderID,
			"content":    msg.Content,
			"created_at": msg.CreatedAt,
		},
	})
	return msg, nil
}

// DeleteMessage 软删除：仅发送者本人可删，且必须仍是会话成员。
// 消息留在序列原位，展示内容被抹除。
func (s *Service) DeleteMessage(ctx context.Context, caller *chatmodel.User, messageID string) (*chatmodel.Message, error) {
	msg, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return nil, errs.WrapMsg(err, "load message", "id", messageID)
	}
	if msg == nil {
		return nil, errs.ErrRecordNotFound.WrapMsg("message not found", "id", messageID)
	}
	if _, err := s.AssertMember(ctx, msg.ConversationID, caller); err != nil {
		return nil, err
	}
	if msg.SenderID != caller.ID {
		return nil, errs.ErrNoPermission.WrapMsg("only the sender can delete", "message", messageID)
	}

	now := s.nowMS()
	if err := s.store.SoftDeleteMessage(ctx, messageID, now); err != nil {
		return nil, errs.WrapMsg(err, "soft delete message")
	}
	msg.IsDeleted = true
	msg.UpdatedAt = now

	s.publish(ctx, event.Event{
		Type:           event.TypeMessageDeleted,
		ConversationID: msg.ConversationID,
		Payload: map[string]any{
			"message_id": msg.ID,
			"sender_id":  msg.SenderID,
		},
	})
	out := msg.ForDisplay()
	return &out, nil
}

// ListMessages 会话全量消息（升序、平局按插入序），已删除条目内容抹除。
func (s *Service) ListMessages(ctx context.Context, caller *chatmodel.User, conversationID string) ([]chatmodel.Message, error) {
	if _, err := s.AssertMember(ctx, conversationID, caller); err != nil {
		return nil, err
	}
	msgs, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, errs.WrapMsg(err, "list messages")
	}
	out := make([]chatmodel.Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.ForDisplay()
	}
	return out, nil
}

// MessageWithReactions 消息 + 按表情聚合的回应视图。
type MessageWithReactions struct {
	chatmodel.Message
	Reactions []chatmodel.ReactionGroup `json:"reactions"`
}

// ListMessagesWithReactions 同序消息列表，每条带聚合回应。
func (s *Service) ListMessagesWithReactions(ctx context.Context, caller *chatmodel.User, conversationID string) ([]MessageWithReactions, error) {
	if _, err := s.AssertMember(ctx, conversationID, caller); err != nil {
		return nil, err
	}
	msgs, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, errs.WrapMsg(err, "list messages")
	}

	out := make([]MessageWithReactions, len(msgs))
	for i, m := range msgs {
		reactions, err := s.store.ListReactions(ctx, m.ID)
		if err != nil {
			return nil, errs.WrapMsg(err, "list reactions", "message", m.ID)
		}
		out[i] = MessageWithReactions{
			Message:   m.ForDisplay(),
			Reactions: AggregateReactions(reactions),
		}
	}
	return out, nil
}
