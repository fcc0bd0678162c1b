package global

import (
	"os"
	"strconv"
	"time"
)

// AppConfig 单进程应用配置，env 优先，缺省走本地默认值。
type AppConfig struct {
	NodeID   int64
	HTTPAddr string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NatsURL  string
	NatsName string

	JWTSecret []byte
	TokenTTL  time.Duration

	// TypingWindow 输入指示的有效窗口
	TypingWindow time.Duration
}

var Global = AppConfig{
	NodeID:        1,
	HTTPAddr:      ":8080",
	MongoURI:      "mongodb://localhost:27017",
	MongoDatabase: "rtchat",
	RedisAddr:     "127.0.0.1:6379",
	RedisPassword: "",
	RedisDB:       0,
	NatsURL:       "nats://127.0.0.1:4222",
	NatsName:      "rtchat-api",
	JWTSecret:     []byte("mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3Hp5Z8q9Rj1o="),
	TokenTTL:      2 * time.Hour,
	TypingWindow:  3000 * time.Millisecond,
}

// Load 应用 env 覆盖，main() 最先调用。
func Load() {
	if v := os.Getenv("RTCHAT_NODE_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			Global.NodeID = n
		}
	}
	if v := os.Getenv("RTCHAT_HTTP_ADDR"); v != "" {
		Global.HTTPAddr = v
	}
	if v := os.Getenv("RTCHAT_MONGO_URI"); v != "" {
		Global.MongoURI = v
	}
	if v := os.Getenv("RTCHAT_MONGO_DB"); v != "" {
		Global.MongoDatabase = v
	}
	if v := os.Getenv("RTCHAT_REDIS_ADDR"); v != "" {
		Global.RedisAddr = v
	}
	if v := os.Getenv("RTCHAT_REDIS_PASSWORD"); v != "" {
		Global.RedisPassword = v
	}
	if v := os.Getenv("RTCHAT_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			Global.RedisDB = n
		}
	}
	if v := os.Getenv("RTCHAT_NATS_URL"); v != "" {
		Global.NatsURL = v
	}
	if v := os.Getenv("RTCHAT_JWT_SECRET"); v != "" {
		Global.JWTSecret = []byte(v)
	}
}

func GetJwtSecret() []byte {
	return Global.JWTSecret
}
