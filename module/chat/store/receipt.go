package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	chatmodel "RTChat/module/chat/model"
	"RTChat/tools/ids"
)

// UpsertReceipt 以 (conversation, user) 为键整条覆盖。
// 唯一索引保证并发 markRead 不会落出第二条活动回执。
// 不校验指针方向，回退按正常写入处理。
func (s *Store) UpsertReceipt(ctx context.Context, conversationID, userID, lastReadMessageID string, nowMS int64) error {
	_, err := s.ReceiptColl.UpdateOne(ctx,
		bson.M{
			chatmodel.ReceiptFieldConversationID: conversationID,
			chatmodel.ReceiptFieldUserID:         userID,
		},
		bson.M{
			"$set": bson.M{
				chatmodel.ReceiptFieldLastReadMessageID: lastReadMessageID,
				chatmodel.ReceiptFieldLastReadAt:        nowMS,
			},
			"$setOnInsert": bson.M{"_id": ids.GenerateString()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// GetReceipt 无记录表示“尚未读过任何消息”，返回 (nil, nil)。
func (s *Store) GetReceipt(ctx context.Context, conversationID, userID string) (*chatmodel.ReadReceipt, error) {
	var rcp chatmodel.ReadReceipt
	err := s.ReceiptColl.FindOne(ctx, bson.M{
		chatmodel.ReceiptFieldConversationID: conversationID,
		chatmodel.ReceiptFieldUserID:         userID,
	}).Decode(&rcp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rcp, nil
}
