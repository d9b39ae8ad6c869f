//go:build (linux && device_display) || preview

// display-test 只启动采集界面（无 API、无模型），用于检查屏幕与触摸。
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"cam-screen/internal/classifier"
	"cam-screen/internal/display"
	"cam-screen/internal/surface"
)

func init() {
	// 锁定主线程用于 SDL（macOS 必须）
	runtime.LockOSThread()
}

func main() {
	w := flag.Int("w", 480, "宽度")
	h := flag.Int("h", 800, "高度")
	flag.Parse()

	disp, err := display.NewDisplay("cam-screen display test", *w, *h)
	if err != nil {
		log.Fatalf("初始化显示失败: %v", err)
	}
	defer disp.Close()

	mgr := display.NewManager(disp, 10*time.Millisecond)
	surf := surface.New(mgr, classifier.Fixed("Result: test"), surface.DefaultOptions())
	if err := surf.Mount(); err != nil {
		log.Printf("网格创建失败: %v", err)
	}

	fmt.Printf("显示系统已启动，%dx%d，按 ESC 或关闭窗口退出\n", disp.GetWidth(), disp.GetHeight())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := mgr.Run(ctx); err != nil {
		log.Fatalf("显示运行错误: %v", err)
	}
	st := surf.Status()
	fmt.Printf("已退出：%d 个单元格，%d 个涂色\n", st.Built, st.Filled)
}
