package model

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"RTChat/service/mgo"
)

// Conversation 会话。单聊（is_group=false）按规范化成员键全局去重：
// participant_key 上建 partial unique 索引，两端同时发起建会也只会落一条。
// 群聊不去重，相同成员可以建多个群。
type Conversation struct {
	ID             string   `bson:"_id" json:"id"`
	ParticipantIDs []string `bson:"participant_ids" json:"participant_ids"` // 规范形：升序、去重
	ParticipantKey string   `bson:"participant_key" json:"-"`               // 去重键（单聊唯一）
	IsGroup        bool     `bson:"is_group" json:"is_group"`
	GroupName      string   `bson:"group_name,omitempty" json:"group_name,omitempty"` // 仅群聊
	CreatedAt      int64    `bson:"created_at" json:"created_at"`                     // unix ms
	UpdatedAt      int64    `bson:"updated_at" json:"updated_at"`                     // 新消息/建会/复用时推进
}

const (
	ConversationFieldParticipantIDs = "participant_ids"
	ConversationFieldParticipantKey = "participant_key"
	ConversationFieldIsGroup        = "is_group"
	ConversationFieldGroupName      = "group_name"
	ConversationFieldCreatedAt      = "created_at"
	ConversationFieldUpdatedAt      = "updated_at"
)

func (c *Conversation) GetTableName() string {
	return "conversations"
}

func (c *Conversation) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(c.GetTableName())
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CanonicalParticipants 规范化成员集：去重 + 升序。所有建会路径都必须先过这里。
func CanonicalParticipants(ids ...string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ParticipantKeyOf 由规范化成员集生成去重键。
func ParticipantKeyOf(sortedIDs []string) string {
	return strings.Join(sortedIDs, "|")
}
