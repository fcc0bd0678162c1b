package model

import (
	"go.mongodb.org/mongo-driver/mongo"

	"RTChat/service/mgo"
)

// TypingIndicator 输入指示：带过期时间的数据，不做定时器回调。
// 过期判定在读取时进行（now > expires_at 即失效），清理只是存储卫生问题。
type TypingIndicator struct {
	ID             string `bson:"_id" json:"id"`
	ConversationID string `bson:"conversation_id" json:"conversation_id"`
	UserID         string `bson:"user_id" json:"user_id"`
	ExpiresAt      int64  `bson:"expires_at" json:"expires_at"` // unix ms
}

const (
	TypingFieldConversationID = "conversation_id"
	TypingFieldUserID         = "user_id"
	TypingFieldExpiresAt      = "expires_at"
)

func (t *TypingIndicator) GetTableName() string {
	return "typing_indicators"
}

func (t *TypingIndicator) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(t.GetTableName())
}

// TypingUser 读取视图：带上显示名（用户档案缺失时兜底占位）。
type TypingUser struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	ExpiresAt int64  `json:"expires_at"`
}
