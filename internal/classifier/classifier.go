package classifier

import (
	"context"
	"fmt"
	"time"

	"cam-screen/config"
	"cam-screen/internal/logger"
	"cam-screen/internal/surface"
)

// Fixed 永远返回同一段文本
type Fixed string

func (f Fixed) Classify(*surface.CaptureBuffer) string { return string(f) }

// New 按配置创建分类器。dense 模型加载失败不致命：分类结果为 NoModelLabel，
// 之后文件就绪时可由 Watch 热加载。
func New(cfg config.ClassifierConfig) (surface.Classifier, error) {
	switch cfg.Mode {
	case config.ClassifierDense:
		d, err := NewDense(cfg.ModelPath)
		if err != nil {
			logger.Warn("模型加载失败，等待热加载: %v", err)
		}
		return d, nil
	case config.ClassifierRemote:
		return NewRemote(cfg.RemoteURL, cfg.Timeout()), nil
	case config.ClassifierNone, "":
		return Fixed(NoModelLabel), nil
	}
	return nil, fmt.Errorf("未知分类器模式: %q", cfg.Mode)
}

// RunTask 推理后台任务占位：周期性醒来，不碰界面
func RunTask(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("推理任务已启动（周期 %v）", interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("推理任务退出")
			return nil
		case <-ticker.C:
		}
	}
}
