// Package api 提供诊断 HTTP 接口：状态、位图导出、远程点击/清空/推理和实时事件。
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"cam-screen/config"
	"cam-screen/internal/logger"
	"cam-screen/internal/memmon"
	"cam-screen/internal/realtime"
	"cam-screen/internal/surface"
	"cam-screen/models"

	"github.com/gin-gonic/gin"
)

// UI 界面操作（surface.Surface 实现了它）；所有方法自行加显示锁
type UI interface {
	Status() surface.Status
	Tap(index int) error
	Clear()
	Infer() string
	Snapshot() surface.CaptureBuffer
}

// MemoryStats 最近一次内存采样
type MemoryStats interface {
	Last() (memmon.Sample, bool)
}

// Server API服务器
type Server struct {
	config *config.ServerConfig
	device config.DeviceConfig
	ui     UI
	mem    MemoryStats
	hub    *realtime.Hub
	router *gin.Engine
}

// NewServer 创建API服务器；mem 和 hub 可以为 nil
func NewServer(cfg *config.Config, ui UI, mem MemoryStats, hub *realtime.Hub) *Server {
	s := &Server{
		config: &cfg.Server,
		device: cfg.Device,
		ui:     ui,
		mem:    mem,
		hub:    hub,
	}
	s.initRouter()
	return s
}

// Router 获取路由
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) initRouter() {
	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())

	api := s.router.Group("/api/v1")
	{
		api.GET("/status", s.authMiddleware(), s.handleStatus)
		api.GET("/capture", s.authMiddleware(), s.handleCapture)
		api.POST("/clear", s.authMiddleware(), s.handleClear)
		api.POST("/infer", s.authMiddleware(), s.handleInfer)
		api.POST("/cells/:index/tap", s.authMiddleware(), s.handleTap)
	}

	if s.hub != nil {
		s.router.GET("/ws", s.handleWebSocket)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse(404, "not found"))
	})
}

// Run 监听 config.Address()，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.config.Address(),
		Handler: s.router,
		// 设备内存有限，收紧连接参数
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 12,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP服务器启动在 %s", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP服务器已关闭")
	return nil
}

func bearerToken(c *gin.Context) string {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
