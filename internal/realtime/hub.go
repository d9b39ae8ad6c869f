// Package realtime 把界面事件推送给 websocket 客户端。
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message 是推送到前端的统一消息结构
type Message struct {
	Type  string      `json:"type"`            // event / hello
	Event string      `json:"event,omitempty"` // label / grid_progress / memory_sample
	Data  interface{} `json:"data,omitempty"`
	TS    string      `json:"ts"`
}

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub 在 Run 的 goroutine 里串行维护客户端集合
type Hub struct {
	mu sync.RWMutex

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run 处理注册/注销/广播，ctx 取消时关闭所有客户端的发送队列
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()
			return nil
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.drop(c)
		case msg := <-h.broadcast:
			var slow []*Client
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.Send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			// 客户端写入慢：踢掉
			for _, c := range slow {
				h.drop(c)
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
	}
}

// Len 当前客户端数量
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Register(conn *websocket.Conn) *Client {
	c := &Client{
		Conn: conn,
		Send: make(chan []byte, 64),
	}
	h.register <- c
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

func (h *Hub) Broadcast(event string, data interface{}) {
	b, _ := json.Marshal(Message{
		Type:  "event",
		Event: event,
		Data:  data,
		TS:    time.Now().Format(time.RFC3339),
	})
	select {
	case h.broadcast <- b:
	default:
		// broadcast 堵住了就丢弃，不能拖住界面线程
	}
}

func (h *Hub) Hello(c *Client, data interface{}) {
	b, _ := json.Marshal(Message{
		Type: "hello",
		Data: data,
		TS:   time.Now().Format(time.RFC3339),
	})
	select {
	case c.Send <- b:
	default:
	}
}
