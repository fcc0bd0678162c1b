package natsx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"

	"RTChat/module/chat/event"
)

// Config 客户端配置
type Config struct {
	URL           string
	Name          string
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// Client 统一客户端：发布会话事件 + 订阅（网关侧用）。
type Client struct {
	nc *nats.Conn
}

func Connect(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("nats url missing")
	}
	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = 500 * time.Millisecond
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Second
	}
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.ReconnectJitter(100*time.Millisecond, 500*time.Millisecond),
		nats.Timeout(cfg.Timeout),
	}
	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc}, nil
}

func (c *Client) Close() {
	if c.nc != nil {
		c.nc.Drain() //nolint:errcheck // 关停路径
	}
}

// Publish 实现 event.Publisher：JSON 编码后按会话 subject 发出。
func (c *Client) Publish(_ context.Context, ev event.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(event.ConvSubject(ev.ConversationID))
	msg.Data = data
	msg.Header.Add("Nats-Msg-Id", genMsgID())
	return c.nc.PublishMsg(msg)
}

// Subscribe core 模式订阅，handler 收原始字节。
func (c *Client) Subscribe(subject string, h func(data []byte)) (*nats.Subscription, error) {
	return c.nc.Subscribe(subject, func(m *nats.Msg) {
		h(m.Data)
	})
}

// 生成随机 msgID（16字节）
func genMsgID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
