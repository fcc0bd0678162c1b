package model

import (
	"go.mongodb.org/mongo-driver/mongo"

	"RTChat/service/mgo"
)

// Message 消息本体。_id 用雪花，同节点内随插入序递增，
// created_at 相同毫秒时充当稳定的平局裁决。软删除只翻标记，不移位。
type Message struct {
	ID             string `bson:"_id" json:"id"`
	ConversationID string `bson:"conversation_id" json:"conversation_id"`
	SenderID       string `bson:"sender_id" json:"sender_id"`
	Content        string `bson:"content" json:"content"`
	IsDeleted      bool   `bson:"is_deleted" json:"is_deleted"`
	CreatedAt      int64  `bson:"created_at" json:"created_at"` // unix ms
	UpdatedAt      int64  `bson:"updated_at" json:"updated_at"`
}

const (
	MessageFieldConversationID = "conversation_id"
	MessageFieldSenderID       = "sender_id"
	MessageFieldContent        = "content"
	MessageFieldIsDeleted      = "is_deleted"
	MessageFieldCreatedAt      = "created_at"
	MessageFieldUpdatedAt      = "updated_at"
)

func (m *Message) GetTableName() string {
	return "messages"
}

func (m *Message) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(m.GetTableName())
}

// ForDisplay 展示视图：已删除的消息保留占位但不外泄原文。
func (m Message) ForDisplay() Message {
	if m.IsDeleted {
		m.Content = ""
	}
	return m
}
