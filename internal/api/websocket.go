package api

import (
	"net/http"
	"strings"
	"time"

	"cam-screen/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// handleWebSocket 推送 label / grid_progress / memory_sample 事件
func (s *Server) handleWebSocket(c *gin.Context) {
	// 鉴权：支持 token query 或 Authorization Bearer
	if s.config.JWTSecret != "" {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			token = bearerToken(c)
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(401, "未授权"))
			return
		}
		if _, err := VerifyToken(s.config.JWTSecret, token); err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(401, "Token无效"))
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写过错误响应
		return
	}
	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	cl := s.hub.Register(conn)

	// hello（一次性快照）
	hello := gin.H{
		"message":   "WebSocket连接成功",
		"device_id": s.device.ID,
		"grid":      s.ui.Status(),
	}
	if s.mem != nil {
		if sample, ok := s.mem.Last(); ok {
			hello["memory"] = sample
		}
	}
	s.hub.Hello(cl, hello)

	// 写循环：Send 被 hub 关闭或写失败时退出
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		defer close(done)
		for {
			select {
			case msg, ok := <-cl.Send:
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// 读循环：只消费控制帧；断开后注销，等写循环收尾
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.Unregister(cl)
	_ = conn.Close()
	<-done
}
