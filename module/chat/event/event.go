package event

import (
	"context"

	"RTChat/tools/decode"
)

// 会话事件：核心仅保证“发布尽力而为”，订阅/推送属于传输层。
const (
	TypeMessageCreated  = "message.created"
	TypeMessageDeleted  = "message.deleted"
	TypeReactionToggled = "reaction.toggled"
	TypeTypingSet       = "typing.set"
)

type Event struct {
	Type           string         `json:"type"`
	ConversationID string         `json:"conversation_id"`
	Payload        map[string]any `json:"payload,omitempty"`
}

// ConvSubject 每个会话一个 subject，网关按用户的会话列表订阅。
func ConvSubject(conversationID string) string {
	return "im.conv." + conversationID
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// DecodePayload 把事件负载还原成具体结构（json tag 驱动）。
func DecodePayload[T any](ev Event) (*T, error) {
	return decode.DecodeMap[T](ev.Payload)
}
