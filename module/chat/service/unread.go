package service

import (
	"context"

	chatmodel "RTChat/module/chat/model"
	"RTChat/tools/errs"
)

// 未读是“视图”而非实体：永远由 (消息序列, 回执) 现算，
// 不维护可变计数器，也就不存在计数器漂移。

// unreadSlice 回执之后的消息段（位置语义）：
//   - 无回执：整个序列未读
//   - 回执命中：严格位于其后的消息
//   - 回执指向的消息已不在序列中（数据不一致）：整个序列按未读处理（fail open）
func unreadSlice(msgs []chatmodel.Message, receipt *chatmodel.ReadReceipt) []chatmodel.Message {
	if receipt == nil {
		return msgs
	}
	for i, m := range msgs {
		if m.ID == receipt.LastReadMessageID {
			return msgs[i+1:]
		}
	}
	return msgs
}

// CountUnread 未读数 = 回执之后、且不是本人发送的消息条数。
func CountUnread(msgs []chatmodel.Message, receipt *chatmodel.ReadReceipt, callerID string) int {
	count := 0
	for _, m := range unreadSlice(msgs, receipt) {
		if m.SenderID != callerID {
			count++
		}
	}
	return count
}

// UnreadMessagesOf 未读消息体：位置语义同上，不做发送者过滤。
// 计数和消息体的口径刻意不同。
func UnreadMessagesOf(msgs []chatmodel.Message, receipt *chatmodel.ReadReceipt) []chatmodel.Message {
	tail := unreadSlice(msgs, receipt)
	out := make([]chatmodel.Message, len(tail))
	for i, m := range tail {
		out[i] = m.ForDisplay()
	}
	return out
}

// MarkRead 覆盖写 (conversation, caller) 的已读指针。
// 调用方应传最新已见消息ID；不拒绝指针回退。
func (s *Service) MarkRead(ctx context.Context, caller *chatmodel.User, conversationID, lastReadMessageID string) error {
	if lastReadMessageID == "" {
		return errs.ErrArgs.WrapMsg("last read message id is required")
	}
	if _, err := s.AssertMember(ctx, conversationID, caller); err != nil {
		return err
	}
	if err := s.store.UpsertReceipt(ctx, conversationID, caller.ID, lastReadMessageID, s.nowMS()); err != nil {
		return errs.WrapMsg(err, "upsert read receipt")
	}
	return nil
}

func (s *Service) UnreadCount(ctx context.Context, caller *chatmodel.User, conversationID string) (int, error) {
	if _, err := s.AssertMember(ctx, conversationID, caller); err != nil {
		return 0, err
	}
	msgs, receipt, err := s.loadUnreadInputs(ctx, conversationID, caller.ID)
	if err != nil {
		return 0, err
	}
	return CountUnread(msgs, receipt, caller.ID), nil
}

func (s *Service) UnreadMessages(ctx context.Context, caller *chatmodel.User, conversationID string) ([]chatmodel.Message, error) {
	if _, err := s.AssertMember(ctx, conversationID, caller); err != nil {
		return nil, err
	}
	msgs, receipt, err := s.loadUnreadInputs(ctx, conversationID, caller.ID)
	if err != nil {
		return nil, err
	}
	return UnreadMessagesOf(msgs, receipt), nil
}

func (s *Service) loadUnreadInputs(ctx context.Context, conversationID, userID string) ([]chatmodel.Message, *chatmodel.ReadReceipt, error) {
	msgs, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, nil, errs.WrapMsg(err, "list messages")
	}
	receipt, err := s.store.GetReceipt(ctx, conversationID, userID)
	if err != nil {
		return nil, nil, errs.WrapMsg(err, "load read receipt")
	}
	return msgs, receipt, nil
}
