package service

import (
	"context"
	"time"

	"RTChat/logger"
	"RTChat/module/chat/event"
	chatmodel "RTChat/module/chat/model"
	"RTChat/module/chat/store"
	"RTChat/tools/errs"
)

// Service 聊天核心的业务入口。身份解析在 HTTP 层完成，
// 这里的 caller 一律是已解析的内部用户档案。
type Service struct {
	store        *store.Store
	pub          event.Publisher // 可为 nil（事件发布尽力而为）
	now          func() time.Time
	typingWindow time.Duration
}

type Option func(*Service)

// WithClock 注入时钟（单测用）。
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.now = clock }
}

// WithTypingWindow 覆盖输入指示窗口（默认 3000ms）。
func WithTypingWindow(d time.Duration) Option {
	return func(s *Service) { s.typingWindow = d }
}

func New(st *store.Store, pub event.Publisher, opts ...Option) *Service {
	s := &Service{
		store:        st,
		pub:          pub,
		now:          time.Now,
		typingWindow: 3000 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) nowMS() int64 {
	return s.now().UnixMilli()
}

// publish 事件发布失败不影响主流程，仅记日志。
func (s *Service) publish(ctx context.Context, ev event.Event) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		logger.Warnf("publish %s event failed: %v", ev.Type, err)
	}
}

// AssertMember 会话级操作的共用前置：存在性 + 成员鉴权。
// 任何触碰会话数据的操作都必须先过这里，失败即 NotFound/Forbidden。
func (s *Service) AssertMember(ctx context.Context, conversationID string, caller *chatmodel.User) (*chatmodel.Conversation, error) {
	conv, err := s.store.GetByID(ctx, conversationID)
	if err != nil {
		return nil, errs.WrapMsg(err, "load conversation", "id", conversationID)
	}
	if conv == nil {
		return nil, errs.ErrRecordNotFound.WrapMsg("conversation not found", "id", conversationID)
	}
	if !conv.HasParticipant(caller.ID) {
		return nil, errs.ErrNoPermission.WrapMsg("not a conversation member", "conversation", conversationID, "user", caller.ID)
	}
	return conv, nil
}
