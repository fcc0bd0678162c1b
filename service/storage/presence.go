package storage

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// presence key: im:presence:<user>，hash 字段 online/last_seen。
// 在线集合: im:presence:online。两者最后写入者胜出，无需锁。
const presenceOnlineSet = "im:presence:online"

func presenceKey(user string) string { return "im:presence:" + user }

type PresenceStatus struct {
	UserID   string `json:"user_id"`
	IsOnline bool   `json:"is_online"`
	LastSeen int64  `json:"last_seen"` // unix ms；从未上报过为 0
}

// PresenceSet 覆盖写用户在线状态，last_seen 取当前时间。
func PresenceSet(user string, online bool, now time.Time) error {
	if err := requireRedis(); err != nil {
		return err
	}
	flag := "0"
	if online {
		flag = "1"
	}
	pipe := rdb.TxPipeline()
	pipe.HSet(ctx, presenceKey(user), "online", flag, "last_seen", now.UnixMilli())
	if online {
		pipe.SAdd(ctx, presenceOnlineSet, user)
	} else {
		pipe.SRem(ctx, presenceOnlineSet, user)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// PresenceGet 读取状态；从未上报过的用户视为离线。
func PresenceGet(user string) (PresenceStatus, error) {
	st := PresenceStatus{UserID: user}
	if err := requireRedis(); err != nil {
		return st, err
	}
	vals, err := rdb.HGetAll(ctx, presenceKey(user)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return st, nil
		}
		return st, err
	}
	st.IsOnline = vals["online"] == "1"
	if v, ok := vals["last_seen"]; ok {
		st.LastSeen, _ = strconv.ParseInt(v, 10, 64)
	}
	return st, nil
}

// PresenceListOnline 返回当前在线用户的状态快照。
func PresenceListOnline() ([]PresenceStatus, error) {
	if err := requireRedis(); err != nil {
		return nil, err
	}
	users, err := rdb.SMembers(ctx, presenceOnlineSet).Result()
	if err != nil {
		return nil, err
	}
	out := make([]PresenceStatus, 0, len(users))
	for _, u := range users {
		st, err := PresenceGet(u)
		if err != nil {
			return nil, err
		}
		// 集合与 hash 间允许短暂不一致，读时以 hash 为准
		if !st.IsOnline {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}
