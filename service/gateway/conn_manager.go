package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"RTChat/tools/ids"
)

// ===== 配置 =====

type ManagerConf struct {
	ConnTTL    time.Duration    // 连接 TTL，心跳续期（如 2h）
	SweepEvery time.Duration    // 清理周期（如 30s）
	SendQueue  int              // 每连接发送队列长度
	Clock      func() time.Time // 可注入时钟（单测用）；nil => time.Now
}

func (c *ManagerConf) norm() {
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.ConnTTL <= 0 {
		c.ConnTTL = 2 * time.Hour
	}
	if c.SweepEvery <= 0 {
		c.SweepEvery = 30 * time.Second
	}
	if c.SendQueue <= 0 {
		c.SendQueue = 64
	}
}

// ===== 数据结构 =====

// Conn 网关侧的一条用户连接。同一用户允许多端同时在线，
// 每条连接独立的发送队列由唯一的写协程消费。
// 投递必须走 Push：NATS 回调等外部协程可能在连接摘除后仍持有引用，
// closed 标记保证迟到的投递安全落空而不是打在已关闭的 channel 上。
type Conn struct {
	ConnID   string
	UserID   string
	WS       *websocket.Conn
	Send     chan []byte
	ExpireAt time.Time

	mu     sync.Mutex
	closed bool
}

// Push 非阻塞投递。连接已关闭或队列满时丢帧，返回是否投递成功。
func (c *Conn) Push(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

type ConnManager struct {
	mu     sync.RWMutex
	byConn map[string]*Conn            // 主索引：connID -> conn
	byUser map[string]map[string]*Conn // 辅助索引：userID -> (connID -> conn)

	conf     ManagerConf
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewConnManager(conf ManagerConf) *ConnManager {
	conf.norm()
	m := &ConnManager{
		byConn: make(map[string]*Conn),
		byUser: make(map[string]map[string]*Conn),
		conf:   conf,
		stopCh: make(chan struct{}),
	}
	go m.sweeper()
	return m
}

func (m *ConnManager) Close() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byConn {
		closeQuiet(c)
	}
	m.byConn = map[string]*Conn{}
	m.byUser = map[string]map[string]*Conn{}
}

// Add 登记一条已鉴权连接，返回连接对象（含发送队列）。
func (m *ConnManager) Add(userID string, ws *websocket.Conn) *Conn {
	c := &Conn{
		ConnID:   ids.GenerateString(),
		UserID:   userID,
		WS:       ws,
		Send:     make(chan []byte, m.conf.SendQueue),
		ExpireAt: m.conf.Clock().Add(m.conf.ConnTTL),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byConn[c.ConnID] = c
	if m.byUser[userID] == nil {
		m.byUser[userID] = make(map[string]*Conn)
	}
	m.byUser[userID][c.ConnID] = c
	return c
}

// Remove 摘除并关闭连接；重复调用安全。
func (m *ConnManager) Remove(connID string) {
	m.mu.Lock()
	c, ok := m.byConn[connID]
	if ok {
		delete(m.byConn, connID)
		if peers := m.byUser[c.UserID]; peers != nil {
			delete(peers, connID)
			if len(peers) == 0 {
				delete(m.byUser, c.UserID)
			}
		}
	}
	m.mu.Unlock()
	if ok {
		closeQuiet(c)
	}
}

// Touch 心跳续期。
func (m *ConnManager) Touch(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byConn[connID]; ok {
		c.ExpireAt = m.conf.Clock().Add(m.conf.ConnTTL)
	}
}

// SendToUser 把一帧投给该用户的全部在线端。队列满的端直接丢帧——
// 网关只做转发，补偿靠客户端重新拉取。返回投递的连接数。
func (m *ConnManager) SendToUser(userID string, data []byte) int {
	m.mu.RLock()
	peers := make([]*Conn, 0, len(m.byUser[userID]))
	for _, c := range m.byUser[userID] {
		peers = append(peers, c)
	}
	m.mu.RUnlock()

	sent := 0
	for _, c := range peers {
		if c.Push(data) {
			sent++
		}
	}
	return sent
}

// CountFor 该用户当前在线连接数（单测/运维用）。
func (m *ConnManager) CountFor(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byUser[userID])
}

// ===== 过期清理 =====

func (m *ConnManager) sweeper() {
	t := time.NewTicker(m.conf.SweepEvery)
	defer t.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-t.C:
			m.sweepExpired()
		}
	}
}

func (m *ConnManager) sweepExpired() {
	now := m.conf.Clock()
	m.mu.Lock()
	var expired []*Conn
	for id, c := range m.byConn {
		if now.After(c.ExpireAt) {
			expired = append(expired, c)
			delete(m.byConn, id)
			if peers := m.byUser[c.UserID]; peers != nil {
				delete(peers, id)
				if len(peers) == 0 {
					delete(m.byUser, c.UserID)
				}
			}
		}
	}
	m.mu.Unlock()
	for _, c := range expired {
		closeQuiet(c)
	}
}

// closeQuiet 标记关闭并收掉发送队列；与 Push 共用互斥锁，
// 不会与任何在途投递交错。重复调用安全。
func closeQuiet(c *Conn) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.Send)
	c.mu.Unlock()
	if c.WS != nil {
		_ = c.WS.Close()
	}
}
