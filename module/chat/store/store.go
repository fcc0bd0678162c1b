package store

import (
	"go.mongodb.org/mongo-driver/mongo"

	chatmodel "RTChat/module/chat/model"
)

// Store 聚合聊天核心的全部集合句柄。所有写入都是单文档原子操作，
// 跨操作一致性交给唯一索引与条件更新，不做应用层锁。
type Store struct {
	UserColl     *mongo.Collection // users
	ConvColl     *mongo.Collection // conversations
	MsgColl      *mongo.Collection // messages
	ReactionColl *mongo.Collection // reactions
	ReceiptColl  *mongo.Collection // read_receipts
	TypingColl   *mongo.Collection // typing_indicators
}

func NewStore() *Store {
	usr := chatmodel.User{}
	cov := chatmodel.Conversation{}
	msg := chatmodel.Message{}
	rea := chatmodel.Reaction{}
	rcp := chatmodel.ReadReceipt{}
	typ := chatmodel.TypingIndicator{}
	return &Store{
		UserColl:     usr.Collection(),
		ConvColl:     cov.Collection(),
		MsgColl:      msg.Collection(),
		ReactionColl: rea.Collection(),
		ReceiptColl:  rcp.Collection(),
		TypingColl:   typ.Collection(),
	}
}
