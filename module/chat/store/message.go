package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	chatmodel "RTChat/module/chat/model"
)

func (s *Store) InsertMessage(ctx context.Context, msg *chatmodel.Message) error {
	_, err := s.MsgColl.InsertOne(ctx, msg)
	return err
}

// GetMessage 不存在时返回 (nil, nil)。
func (s *Store) GetMessage(ctx context.Context, id string) (*chatmodel.Message, error) {
	var msg chatmodel.Message
	err := s.MsgColl.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages 会话内全量消息，created_at 升序、_id（插入序）裁决平局。
// 含已删除消息——删除不改变序列位置，展示层负责隐藏内容。
func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]chatmodel.Message, error) {
	cur, err := s.MsgColl.Find(ctx,
		bson.M{chatmodel.MessageFieldConversationID: conversationID},
		options.Find().SetSort(bson.D{
			{Key: chatmodel.MessageFieldCreatedAt, Value: 1},
			{Key: "_id", Value: 1},
		}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx) //nolint:errcheck // 读路径
	var out []chatmodel.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SoftDeleteMessage 只翻 is_deleted 标记，消息保留在序列原位。
func (s *Store) SoftDeleteMessage(ctx context.Context, id string, nowMS int64) error {
	_, err := s.MsgColl.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			chatmodel.MessageFieldIsDeleted: true,
			chatmodel.MessageFieldUpdatedAt: nowMS,
		}},
	)
	return err
}

// LastMessage 会话最新一条（含已删除），没有返回 (nil, nil)。
func (s *Store) LastMessage(ctx context.Context, conversationID string) (*chatmodel.Message, error) {
	var msg chatmodel.Message
	err := s.MsgColl.FindOne(ctx,
		bson.M{chatmodel.MessageFieldConversationID: conversationID},
		options.FindOne().SetSort(bson.D{
			{Key: chatmodel.MessageFieldCreatedAt, Value: -1},
			{Key: "_id", Value: -1},
		}),
	).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
