package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	chatmodel "RTChat/module/chat/model"
	"RTChat/tools/ids"
)

// ToggleReaction 原子的删/插切换：先按三元组删，删到了就是取消；
// 没删到就插入。插入撞唯一索引说明并发 toggle 已经落了同一条，
// 终态仍然是“存在”，按成功处理。返回 added=插入后存在。
func (s *Store) ToggleReaction(ctx context.Context, messageID, userID, emoji string, nowMS int64) (added bool, err error) {
	filter := bson.M{
		chatmodel.ReactionFieldMessageID: messageID,
		chatmodel.ReactionFieldUserID:    userID,
		chatmodel.ReactionFieldEmoji:     emoji,
	}
	res, err := s.ReactionColl.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	_, err = s.ReactionColl.InsertOne(ctx, chatmodel.Reaction{
		ID:        ids.GenerateString(),
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: nowMS,
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return false, err
	}
	return true, nil
}

// ListReactions 某条消息的全部回应，按落库序（首见序聚合的基础）。
func (s *Store) ListReactions(ctx context.Context, messageID string) ([]chatmodel.Reaction, error) {
	cur, err := s.ReactionColl.Find(ctx,
		bson.M{chatmodel.ReactionFieldMessageID: messageID},
		options.Find().SetSort(bson.D{
			{Key: chatmodel.ReactionFieldCreatedAt, Value: 1},
			{Key: "_id", Value: 1},
		}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx) //nolint:errcheck // 读路径
	var out []chatmodel.Reaction
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
