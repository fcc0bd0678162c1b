package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	chatmodel "RTChat/module/chat/model"
	"RTChat/tools/ids"
)

// UpsertTyping 同一 (conversation, user) 覆盖写新的过期时间，不留历史。
// 近邻并发谁后写谁赢，可接受。
func (s *Store) UpsertTyping(ctx context.Context, conversationID, userID string, expiresAtMS int64) error {
	_, err := s.TypingColl.UpdateOne(ctx,
		bson.M{
			chatmodel.TypingFieldConversationID: conversationID,
			chatmodel.TypingFieldUserID:         userID,
		},
		bson.M{
			"$set":         bson.M{chatmodel.TypingFieldExpiresAt: expiresAtMS},
			"$setOnInsert": bson.M{"_id": ids.GenerateString()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// ListActiveTyping 只返回未过期记录；过期判定在查询条件里完成，
// 不依赖任何后台清理。
func (s *Store) ListActiveTyping(ctx context.Context, conversationID string, nowMS int64) ([]chatmodel.TypingIndicator, error) {
	cur, err := s.TypingColl.Find(ctx, bson.M{
		chatmodel.TypingFieldConversationID: conversationID,
		chatmodel.TypingFieldExpiresAt:      bson.M{"$gt": nowMS},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx) //nolint:errcheck // 读路径
	var out []chatmodel.TypingIndicator
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SweepExpiredTyping 清理早已过期的记录。纯存储卫生，不影响正确性。
func (s *Store) SweepExpiredTyping(ctx context.Context, beforeMS int64) (int64, error) {
	res, err := s.TypingColl.DeleteMany(ctx, bson.M{
		chatmodel.TypingFieldExpiresAt: bson.M{"$lt": beforeMS},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
