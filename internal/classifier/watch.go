package classifier

import (
	"context"
	"path/filepath"
	"time"

	"cam-screen/internal/logger"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// Watch 监听模型文件所在目录，文件写入/替换后重新加载，直到 ctx 取消
func Watch(ctx context.Context, d *Dense) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// 监听目录：很多工具通过 rename 替换文件，直接监听文件会丢失
	dir := filepath.Dir(d.Path())
	if err := w.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(d.Path())
	logger.Info("模型热加载已启用: %s", target)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case <-fire:
			fire = nil
			if err := d.Reload(); err != nil {
				logger.Warn("模型热加载失败: %v", err)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("模型监听错误: %v", err)
		}
	}
}
