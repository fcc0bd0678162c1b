package model

import (
	"sort"

	"go.mongodb.org/mongo-driver/mongo"

	"RTChat/service/mgo"
)

// User 用户档案。SubjectID 是身份提供方的主体ID（唯一、不可变），
// 首次登录后由客户端 upsert 建档。
type User struct {
	ID        string `bson:"_id" json:"id"`               // 内部用户ID（雪花）
	SubjectID string `bson:"subject_id" json:"subject_id"` // 外部身份主体，唯一索引
	Email     string `bson:"email" json:"email"`
	Name      string `bson:"name" json:"name"`
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	CreatedAt int64  `bson:"created_at" json:"created_at"` // unix ms
}

const (
	UserFieldSubjectID = "subject_id"
	UserFieldEmail     = "email"
	UserFieldName      = "name"
	UserFieldAvatarURL = "avatar_url"
	UserFieldCreatedAt = "created_at"
)

func (u *User) GetTableName() string {
	return "users"
}

func (u *User) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(u.GetTableName())
}

// SortUsersByCreatedAt 目录查询统一按建档时间升序返回。
func SortUsersByCreatedAt(users []User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt != users[j].CreatedAt {
			return users[i].CreatedAt < users[j].CreatedAt
		}
		return users[i].ID < users[j].ID
	})
}
