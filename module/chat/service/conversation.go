package service

import (
	"context"
	"strings"

	chatmodel "RTChat/module/chat/model"
	usersvc "RTChat/module/user/service"
	"RTChat/tools/errs"
	"RTChat/tools/ids"
)

// CreateOrGetDirect 单聊“查找或建会”。命中已有会话时同步推进 updated_at
// （复用也代表活跃），去重与并发安全由存储层的唯一索引兜底。
func (s *Service) CreateOrGetDirect(ctx context.Context, caller *chatmodel.User, otherUserID string) (*chatmodel.Conversation, error) {
	if otherUserID == "" || otherUserID == caller.ID {
		return nil, errs.ErrArgs.WrapMsg("invalid other user", "other", otherUserID)
	}
	other, err := usersvc.GetByID(ctx, otherUserID)
	if err != nil {
		return nil, errs.WrapMsg(err, "load other user", "id", otherUserID)
	}
	if other == nil {
		return nil, errs.ErrRecordNotFound.WrapMsg("other user not found", "id", otherUserID)
	}

	conv, err := s.store.FindOrCreateDirect(ctx, caller.ID, otherUserID, s.nowMS())
	if err != nil {
		return nil, errs.WrapMsg(err, "find or create direct conversation")
	}
	return conv, nil
}

// CreateGroup 群聊永远新建：成员 = 去重后的 (caller ∪ participantIDs)，
// 相同成员集合可以并存多个群。
func (s *Service) CreateGroup(ctx context.Context, caller *chatmodel.User, participantIDs []string, groupName string) (*chatmodel.Conversation, error) {
	if strings.TrimSpace(groupName) == "" {
		return nil, errs.ErrArgs.WrapMsg("group name is required")
	}

	members := chatmodel.CanonicalParticipants(append([]string{caller.ID}, participantIDs...)...)
	now := s.nowMS()
	conv := &chatmodel.Conversation{
		ID:             ids.GenerateString(),
		ParticipantIDs: members,
		ParticipantKey: chatmodel.ParticipantKeyOf(members),
		IsGroup:        true,
		GroupName:      groupName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.InsertGroup(ctx, conv); err != nil {
		return nil, errs.WrapMsg(err, "insert group conversation")
	}
	return conv, nil
}

// GetConversation 单会话读取：NotFound / Forbidden 语义与 AssertMember 一致。
func (s *Service) GetConversation(ctx context.Context, caller *chatmodel.User, conversationID string) (*chatmodel.Conversation, error) {
	return s.AssertMember(ctx, conversationID, caller)
}
