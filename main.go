package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cam-screen/config"
	"cam-screen/internal/api"
	"cam-screen/internal/board"
	"cam-screen/internal/classifier"
	"cam-screen/internal/display"
	"cam-screen/internal/envfile"
	"cam-screen/internal/logger"
	"cam-screen/internal/memmon"
	"cam-screen/internal/realtime"
	"cam-screen/internal/surface"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// inferTaskInterval 推理后台任务的唤醒周期
const inferTaskInterval = time.Second

func newApp(displayDefault bool) *cli.Command {
	return &cli.Command{
		Name:  "cam-screen",
		Usage: "28x28 触摸手写采集屏",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（.json/.yaml）",
				Value:   config.GetConfigPath(),
				Sources: cli.EnvVars("CAMSCREEN_CONFIG_PATH"),
			},
			&cli.BoolFlag{
				Name:  "display",
				Usage: "启用屏幕（关闭时界面只存在于内存，仍可通过 API 操作）",
				Value: displayDefault,
			},
			&cli.BoolFlag{
				Name:  "api",
				Usage: "启用诊断 API（覆盖配置 server.enabled）",
			},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:  "token",
				Usage: "用 server.jwt_secret 签发 API Token",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "有效期"},
				},
				Action: issueToken,
			},
		},
	}
}

func runApp(displayDefault bool) {
	// .env 必须在解析参数前加载，EnvVars 来源才能生效
	envfile.Bootstrap()

	if err := newApp(displayDefault).Run(context.Background(), os.Args); err != nil {
		log.Fatalf("cam-screen: %v", err)
	}
}

func issueToken(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfigFrom(cmd.Root().String("config"))
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	token, err := api.GenerateToken(cfg.Server.JWTSecret, cfg.Device.ID, cmd.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	if err := logger.InitLogger(); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Close()
	logger.Info("启动 cam-screen...")

	cfg, err := config.LoadConfigFrom(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if os.Getenv("CAMSCREEN_LOG_LEVEL") == "" {
		logger.SetLevel(cfg.Log.Level)
	}
	if cmd.IsSet("api") {
		cfg.Server.Enabled = cmd.Bool("api")
	}

	reader := memmon.NewSystemReader()
	memmon.LogStartup(reader)

	if err := board.Bringup(board.SysfsRoot, cfg.Display.Brightness); err != nil {
		logger.Warn("背光初始化失败: %v", err)
	}

	disp, err := openDisplay(cfg, cmd.Bool("display"))
	if err != nil {
		return fmt.Errorf("初始化显示失败: %w", err)
	}
	defer func() { _ = disp.Close() }()

	cls, err := classifier.New(cfg.Classifier)
	if err != nil {
		return err
	}

	hub := realtime.NewHub()
	mgr := display.NewManager(disp, cfg.Display.FrameInterval())
	buildMon := memmon.NewMonitor("build", cfg.Memory.BuildInterval(), reader, memmon.WithPublisher(hub))
	loopMon := memmon.NewMonitor("loop", cfg.Memory.LoopInterval(), reader, memmon.WithPublisher(hub))

	surf := surface.New(mgr, cls, surfaceOptions(cfg),
		surface.WithPools(surface.DefaultPools(reader)...),
		surface.WithMonitor(buildMon),
		surface.WithPublisher(hub),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gCtx) })
	g.Go(func() error { return classifier.RunTask(gCtx, inferTaskInterval) })
	if d, ok := cls.(*classifier.Dense); ok && cfg.Classifier.Watch {
		g.Go(func() error { return classifier.Watch(gCtx, d) })
	}
	if cfg.Server.Enabled {
		srv := api.NewServer(cfg, surf, loopMon, hub)
		g.Go(func() error { return srv.Run(gCtx) })
	}

	// UI 在当前（主）线程上运行；建网格失败时界面仍然可用
	if err := surf.Mount(); err != nil {
		logger.Warn("界面部分可用: %v", err)
	}
	mgr.OnFrame(func() { loopMon.Sample() })

	uiErr := mgr.Run(gCtx)
	logger.Info("正在关闭服务...")
	stop()

	if err := g.Wait(); err != nil {
		return err
	}
	if uiErr != nil {
		return fmt.Errorf("屏幕交互系统运行错误: %w", uiErr)
	}
	logger.Info("服务已关闭")
	return nil
}

func surfaceOptions(cfg *config.Config) surface.Options {
	opts := surface.DefaultOptions()
	opts.Title = cfg.Display.Title
	opts.MaxObjects = cfg.Display.MaxObjects
	opts.BatchSize = cfg.Grid.BatchSize
	opts.BatchPause = cfg.Grid.BatchPause()
	opts.RowPause = cfg.Grid.RowPause()
	opts.WarmupFrames = cfg.Grid.WarmupFrames
	opts.WarmupPause = cfg.Display.FrameInterval()
	opts.LabelCapacity = cfg.Classifier.LabelCapacity
	return opts
}
