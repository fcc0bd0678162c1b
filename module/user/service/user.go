package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	chatmodel "RTChat/module/chat/model"
	"RTChat/tools/ids"
)

// 用户目录：以外部身份主体（subject_id）为唯一键的档案库。
// 档案只增改不删，“首次登录即建档”由客户端调用 Upsert 完成。

type UpsertParams struct {
	Subject   string // 必填，外部身份主体
	Email     string
	Name      string
	AvatarURL string
	Now       time.Time // 业务注入“当前时间”，零值时用 time.Now()
}

// Upsert 建档或更新，返回最新档案。subject_id 唯一索引保证并发建档只落一条。
func Upsert(ctx context.Context, in UpsertParams) (*chatmodel.User, error) {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	usr := chatmodel.User{}
	update := bson.M{
		"$set": bson.M{
			chatmodel.UserFieldEmail:     in.Email,
			chatmodel.UserFieldName:      in.Name,
			chatmodel.UserFieldAvatarURL: in.AvatarURL,
		},
		"$setOnInsert": bson.M{
			"_id": ids.GenerateString(),
			chatmodel.UserFieldSubjectID: in.Subject,
			chatmodel.UserFieldCreatedAt: now.UnixMilli(),
		},
	}

	var out chatmodel.User
	err := usr.Collection().FindOneAndUpdate(ctx,
		bson.M{chatmodel.UserFieldSubjectID: in.Subject},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBySubject 身份解析的第二步：subject -> 档案。无档案返回 (nil, nil)。
func GetBySubject(ctx context.Context, subject string) (*chatmodel.User, error) {
	usr := chatmodel.User{}
	var out chatmodel.User
	err := usr.Collection().FindOne(ctx, bson.M{chatmodel.UserFieldSubjectID: subject}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func GetByID(ctx context.Context, id string) (*chatmodel.User, error) {
	usr := chatmodel.User{}
	var out chatmodel.User
	err := usr.Collection().FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByIDs 批量取档案（视图拼装用）。缺档的 id 直接缺位，不报错。
func GetByIDs(ctx context.Context, idList []string) (map[string]chatmodel.User, error) {
	if len(idList) == 0 {
		return map[string]chatmodel.User{}, nil
	}
	usr := chatmodel.User{}
	cur, err := usr.Collection().Find(ctx, bson.M{"_id": bson.M{"$in": idList}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx) //nolint:errcheck // 读路径
	out := make(map[string]chatmodel.User, len(idList))
	for cur.Next(ctx) {
		var u chatmodel.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, cur.Err()
}

// Search 按显示名子串（不区分大小写）搜索，排除调用者自身，
// 建档时间升序。空串等价于“除自己外的全部用户”。
func Search(ctx context.Context, callerID, query string) ([]chatmodel.User, error) {
	usr := chatmodel.User{}
	filter := bson.M{"_id": bson.M{"$ne": callerID}}
	if query != "" {
		filter[chatmodel.UserFieldName] = primitive.Regex{
			Pattern: regexp.QuoteMeta(query),
			Options: "i",
		}
	}
	cur, err := usr.Collection().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx) //nolint:errcheck // 读路径
	var out []chatmodel.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	chatmodel.SortUsersByCreatedAt(out)
	return out, nil
}
