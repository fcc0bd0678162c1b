package model

import (
	"go.mongodb.org/mongo-driver/mongo"

	"RTChat/service/mgo"
)

// AllowedEmojis 表情白名单。toggle 只接受这里列出的字形。
var AllowedEmojis = []string{"👍", "❤️", "😂", "😮", "😢"}

func IsAllowedEmoji(emoji string) bool {
	for _, e := range AllowedEmojis {
		if e == emoji {
			return true
		}
	}
	return false
}

// Reaction 表情回应。(message_id, user_id, emoji) 唯一索引保证
// 同一用户同一表情在一条消息上至多一条，toggle 是幂等的删/插。
type Reaction struct {
	ID        string `bson:"_id" json:"id"`
	MessageID string `bson:"message_id" json:"message_id"`
	UserID    string `bson:"user_id" json:"user_id"`
	Emoji     string `bson:"emoji" json:"emoji"`
	CreatedAt int64  `bson:"created_at" json:"created_at"` // unix ms
}

const (
	ReactionFieldMessageID = "message_id"
	ReactionFieldUserID    = "user_id"
	ReactionFieldEmoji     = "emoji"
	ReactionFieldCreatedAt = "created_at"
)

func (r *Reaction) GetTableName() string {
	return "reactions"
}

func (r *Reaction) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(r.GetTableName())
}

// ReactionGroup 聚合视图：按 emoji 分组，组序 = 首次出现序。
type ReactionGroup struct {
	Emoji   string   `json:"emoji"`
	Count   int      `json:"count"`
	UserIDs []string `json:"user_ids"`
}
