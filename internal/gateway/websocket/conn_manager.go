package websocket

import (
	"net/http"
	"sync"
	"time"

	"pet_adoption_server/pkg/constants"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMsgSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 跨域由 CORS 中间件和 JWT 校验把关
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client 单条 WebSocket 连接
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userId string
	send   chan []byte
	once   sync.Once
}

// Hub 维护在线连接，userId -> 连接集合
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewHub 创建连接管理器
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

// Serve 升级 HTTP 连接并注册到 Hub，读写各一个协程
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userId string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := &Client{
		hub:    h,
		conn:   conn,
		userId: userId,
		send:   make(chan []byte, constants.CHANNEL_SIZE),
	}
	h.register(client)
	go client.writePump()
	go client.readPump()
	zap.L().Info("ws连接成功", zap.String("user_id", userId))
	return nil
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.userId]
	if !ok {
		conns = make(map[*Client]struct{})
		h.clients[c.userId] = conns
	}
	conns[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	conns, ok := h.clients[c.userId]
	if ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.userId)
		}
	}
	h.mu.Unlock()
	c.close()
}

// PushToUser 非阻塞推送，缓冲区满的连接会被断开
func (h *Hub) PushToUser(userId string, payload []byte) bool {
	h.mu.RLock()
	var slow []*Client
	delivered := false
	for c := range h.clients[userId] {
		select {
		case c.send <- payload:
			delivered = true
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		zap.L().Warn("ws send buffer full, closing connection", zap.String("user_id", userId))
		h.unregister(c)
	}
	return delivered
}

// Online 用户是否有在线连接
func (h *Hub) Online(userId string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userId]) > 0
}

// Close 断开全部连接
func (h *Hub) Close() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[string]map[*Client]struct{})
	h.mu.Unlock()

	for _, conns := range all {
		for c := range conns {
			c.close()
		}
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// readPump 只处理控制帧，客户端发来的数据帧直接丢弃
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("ws read error", zap.String("user_id", c.userId), zap.Error(err))
			}
			return
		}
	}
}

// writePump 把 send 中的消息写给前端，并定时发送 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				zap.L().Error("ws write error", zap.String("user_id", c.userId), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var _ Pusher = (*Hub)(nil)
