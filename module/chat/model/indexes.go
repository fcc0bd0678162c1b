package model

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes 建立全部索引。幂等，启动时调用。
//
// 一致性关键的三个唯一索引：
//   - conversations.participant_key（partial，仅 is_group=false）：单聊全局去重
//   - reactions (message_id, user_id, emoji)：toggle 竞态下不会重复累积
//   - read_receipts (conversation_id, user_id)：并发 markRead 单条回执
func EnsureIndexes(ctx context.Context) error {
	user := User{}
	conv := Conversation{}
	msg := Message{}
	rea := Reaction{}
	rcp := ReadReceipt{}
	typ := TypingIndicator{}

	specs := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{user.Collection(), []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: UserFieldSubjectID, Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: UserFieldEmail, Value: 1}}},
		}},
		{conv.Collection(), []mongo.IndexModel{
			{
				Keys: bson.D{{Key: ConversationFieldParticipantKey, Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{ConversationFieldIsGroup: false}),
			},
			{Keys: bson.D{{Key: ConversationFieldParticipantIDs, Value: 1}, {Key: ConversationFieldUpdatedAt, Value: -1}}},
		}},
		{msg.Collection(), []mongo.IndexModel{
			{Keys: bson.D{{Key: MessageFieldConversationID, Value: 1}, {Key: MessageFieldCreatedAt, Value: 1}, {Key: "_id", Value: 1}}},
			{Keys: bson.D{{Key: MessageFieldSenderID, Value: 1}}},
		}},
		{rea.Collection(), []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: ReactionFieldMessageID, Value: 1},
					{Key: ReactionFieldUserID, Value: 1},
					{Key: ReactionFieldEmoji, Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: ReactionFieldMessageID, Value: 1}, {Key: ReactionFieldCreatedAt, Value: 1}}},
		}},
		{rcp.Collection(), []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: ReceiptFieldConversationID, Value: 1}, {Key: ReceiptFieldUserID, Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		}},
		{typ.Collection(), []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: TypingFieldConversationID, Value: 1}, {Key: TypingFieldUserID, Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		}},
	}

	for _, spec := range specs {
		if _, err := spec.coll.Indexes().CreateMany(ctx, spec.models); err != nil {
			return err
		}
	}
	return nil
}
