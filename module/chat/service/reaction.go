package service

import (
	"context"

	"RTChat/module/chat/event"
	chatmodel "RTChat/module/chat/model"
	"RTChat/tools/errs"
)

// ToggleReaction 幂等切换：已有同 (message, user, emoji) 回应则取消，
// 否则添加。白名单外的表情直接拒绝。返回切换后是否存在。
func (s *Service) ToggleReaction(ctx context.Context, caller *chatmodel.User, messageID, emoji string) (bool, error) {
	if !chatmodel.IsAllowedEmoji(emoji) {
		return false, errs.ErrArgs.WrapMsg("emoji not allowed", "emoji", emoji)
	}

	msg, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return false, errs.WrapMsg(err, "load message", "id", messageID)
	}
	if msg == nil {
		return false, errs.ErrRecordNotFound.WrapMsg("message not found", "id", messageID)
	}
	if _, err := s.AssertMember(ctx, msg.ConversationID, caller); err != nil {
		return false, err
	}

	added, err := s.store.ToggleReaction(ctx, messageID, caller.ID, emoji, s.nowMS())
	if err != nil {
		return false, errs.WrapMsg(err, "toggle reaction")
	}

	s.publish(ctx, event.Event{
		Type:           event.TypeReactionToggled,
		ConversationID: msg.ConversationID,
		Payload: map[string]any{
			"message_id": messageID,
			"sender_id":  caller.ID,
			"emoji":      emoji,
			"added":      added,
		},
	})
	return added, nil
}

// ListReactions 单条消息的聚合回应。
func (s *Service) ListReactions(ctx context.Context, caller *chatmodel.User, messageID string) ([]chatmodel.ReactionGroup, error) {
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
	reactions, err := s.store.ListReactions(ctx, messageID)
	if err != nil {
		return nil, errs.WrapMsg(err, "list reactions")
	}
	return AggregateReactions(reactions), nil
}

// AggregateReactions 按 emoji 分组聚合，组序 = emoji 在存储序中的首见序
// （不是字典序）。同一 (user, emoji) 因唯一索引至多出现一次。
func AggregateReactions(reactions []chatmodel.Reaction) []chatmodel.ReactionGroup {
	groups := make([]chatmodel.ReactionGroup, 0)
	index := make(map[string]int)
	for _, r := range reactions {
		i, ok := index[r.Emoji]
		if !ok {
			i = len(groups)
			index[r.Emoji] = i
			groups = append(groups, chatmodel.ReactionGroup{Emoji: r.Emoji})
		}
		groups[i].Count++
		groups[i].UserIDs = append(groups[i].UserIDs, r.UserID)
	}
	return groups
}
