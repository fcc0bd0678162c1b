package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"

	"RTChat/logger"
	midsec "RTChat/middleware/security"
	"RTChat/module/chat/event"
	"RTChat/module/chat/store"
	usersvc "RTChat/module/user/service"
	"RTChat/service/natsx"
)

var upgrader = websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096, CheckOrigin: func(r *http.Request) bool { return true }}

// Server 事件转发网关：每个连接订阅该用户全部会话的事件 subject，
// 把事件帧原样推给客户端。只转发，不承载任何业务语义。
type Server struct {
	mgr   *ConnManager
	nats  *natsx.Client
	store *store.Store
}

func NewServer(mgr *ConnManager, nc *natsx.Client, st *store.Store) *Server {
	return &Server{mgr: mgr, nats: nc, store: st}
}

func (s *Server) ConnMgr() *ConnManager { return s.mgr }

// 事件负载里的发送者标识，用于跳过回声。
type senderPayload struct {
	SenderID string `json:"sender_id"`
}

// HandleWS GET /ws（鉴权中间件已放行）。
// 连接期内的会话集合是快照：新加入的会话需要重连后才会收到事件。
func (s *Server) HandleWS(c *gin.Context) {
	subject := midsec.SubjectOf(c)
	caller, err := usersvc.GetBySubject(c.Request.Context(), subject)
	if err != nil || caller == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[HandleWS] upgrade error: %v", err)
		return
	}

	conn := s.mgr.Add(caller.ID, ws)
	defer s.mgr.Remove(conn.ConnID)

	subs, err := s.subscribeConversations(c.Request.Context(), caller.ID, conn)
	if err != nil {
		logger.Warnf("[HandleWS] subscribe failed user=%s err=%v", caller.ID, err)
		return
	}
	defer func() {
		for _, sub := range subs {
			_ = sub.Unsubscribe()
		}
	}()

	// ---- 写协程：唯一写者，队列关闭即退出 ----
	done := make(chan struct{})
	go func() {
		defer close(done)
		for data := range conn.Send {
			if werr := ws.WriteMessage(websocket.TextMessage, data); werr != nil {
				logger.Infof("[HandleWS] write err conn=%s err=%v", conn.ConnID, werr)
				return
			}
		}
	}()

	// ---- 读循环：只处理心跳与关闭 ----
	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[HandleWS] peer closed conn=%s", conn.ConnID)
			} else {
				logger.Infof("[HandleWS] read err conn=%s err=%v", conn.ConnID, rerr)
			}
			break
		}
		if mt == websocket.TextMessage && string(data) == "ping" {
			s.mgr.Touch(conn.ConnID)
		}
	}

	s.mgr.Remove(conn.ConnID)
	<-done
}

// subscribeConversations 按用户会话列表逐个订阅，回调里跳过
// 用户自己触发的事件再投递。
func (s *Server) subscribeConversations(ctx context.Context, userID string, conn *Conn) ([]*nats.Subscription, error) {
	convs, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	subs := make([]*nats.Subscription, 0, len(convs))
	for _, cv := range convs {
		sub, err := s.nats.Subscribe(event.ConvSubject(cv.ID), func(data []byte) {
			// Push 对已摘除的连接安全落空，回调晚于 Remove 到达也不会出事
			if shouldForward(data, userID) {
				conn.Push(data)
			}
		})
		if err != nil {
			for _, prev := range subs {
				_ = prev.Unsubscribe()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// shouldForward 解析事件，过滤当前用户自己触发的事件（客户端已本地生效）。
// 解析失败按可转发处理，宁多勿漏。
func shouldForward(data []byte, userID string) bool {
	var ev event.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return true
	}
	sender, err := event.DecodePayload[senderPayload](ev)
	if err != nil {
		return true
	}
	return sender.SenderID != userID
}
