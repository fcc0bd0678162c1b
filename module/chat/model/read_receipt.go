package model

import (
	"go.mongodb.org/mongo-driver/mongo"

	"RTChat/service/mgo"
)

// ReadReceipt 已读回执：每个 (conversation, user) 至多一条活动记录，
// 唯一索引 + upsert 保证并发 markRead 不会落出两条。
// 指针允许回退，未做单调约束。
type ReadReceipt struct {
	ID                string `bson:"_id" json:"id"`
	ConversationID    string `bson:"conversation_id" json:"conversation_id"`
	UserID            string `bson:"user_id" json:"user_id"`
	LastReadMessageID string `bson:"last_read_message_id" json:"last_read_message_id"`
	LastReadAt        int64  `bson:"last_read_at" json:"last_read_at"` // unix ms
}

const (
	ReceiptFieldConversationID    = "conversation_id"
	ReceiptFieldUserID            = "user_id"
	ReceiptFieldLastReadMessageID = "last_read_message_id"
	ReceiptFieldLastReadAt        = "last_read_at"
)

func (r *ReadReceipt) GetTableName() string {
	return "read_receipts"
}

func (r *ReadReceipt) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(r.GetTableName())
}
