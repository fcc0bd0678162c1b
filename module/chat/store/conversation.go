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

// FindOrCreateDirect 单聊查找或建会，一步完成：
// 命中即 $set 推进 updated_at（复用也算活跃），未命中由 $setOnInsert 落新档。
// participant_key 的 partial unique 索引兜底并发——两端同时发起也只会有一条胜出，
// 极端竞态下 upsert 可能撞唯一键，重试一次即可读到赢家。
func (s *Store) FindOrCreateDirect(ctx context.Context, memberA, memberB string, nowMS int64) (*chatmodel.Conversation, error) {
	members := chatmodel.CanonicalParticipants(memberA, memberB)
	key := chatmodel.ParticipantKeyOf(members)

	filter := bson.M{
		chatmodel.ConversationFieldIsGroup:        false,
		chatmodel.ConversationFieldParticipantKey: key,
	}
	update := bson.M{
		"$set": bson.M{chatmodel.ConversationFieldUpdatedAt: nowMS},
		"$setOnInsert": bson.M{
			"_id": ids.GenerateString(),
			chatmodel.ConversationFieldParticipantIDs: members,
			chatmodel.ConversationFieldIsGroup:        false,
			chatmodel.ConversationFieldCreatedAt:      nowMS,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	for attempt := 0; ; attempt++ {
		var conv chatmodel.Conversation
		err := s.ConvColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&conv)
		if err == nil {
			return &conv, nil
		}
		if mongo.IsDuplicateKeyError(err) && attempt == 0 {
			continue
		}
		return nil, err
	}
}

// InsertGroup 群聊永远新建，不查重。
func (s *Store) InsertGroup(ctx context.Context, conv *chatmodel.Conversation) error {
	_, err := s.ConvColl.InsertOne(ctx, conv)
	return err
}

// ListForUser 返回成员包含 userID 的全部会话，按 updated_at 降序。
func (s *Store) ListForUser(ctx context.Context, userID string) ([]chatmodel.Conversation, error) {
	cur, err := s.ConvColl.Find(ctx,
		bson.M{chatmodel.ConversationFieldParticipantIDs: userID},
		options.Find().SetSort(bson.D{
			{Key: chatmodel.ConversationFieldUpdatedAt, Value: -1},
			{Key: "_id", Value: -1},
		}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx) //nolint:errcheck // 读路径
	var out []chatmodel.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID 不存在时返回 (nil, nil)，由上层映射成 NotFound。
func (s *Store) GetByID(ctx context.Context, id string) (*chatmodel.Conversation, error) {
	var conv chatmodel.Conversation
	err := s.ConvColl.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// TouchUpdatedAt 新消息到达时推进会话活跃时间。
func (s *Store) TouchUpdatedAt(ctx context.Context, id string, nowMS int64) error {
	_, err := s.ConvColl.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{chatmodel.ConversationFieldUpdatedAt: nowMS}},
	)
	return err
}
