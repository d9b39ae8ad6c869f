package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	root    = zerolog.Nop()
	logFile *os.File
	extraW  io.Writer // 测试或外部注入的额外输出
	level   = zerolog.InfoLevel

	logMu           sync.Mutex
	lastRotateCheck int64 // unix nano
)

const (
	// MaxLogSizeBytes 单文件最大 5MB，超过就轮转
	MaxLogSizeBytes int64 = 5 * 1024 * 1024
	// MaxRotatedFiles 保留最近 N 份轮转文件（不含当前 system.log）
	MaxRotatedFiles = 2

	defaultLogDir = "/var/log/cam-screen"
)

// InitLogger 初始化日志系统
func InitLogger() error {
	// 优先使用环境变量指定日志目录；否则使用默认目录；
	// 无权限时（如 macOS 非 root）自动降级到临时目录。
	logDir := os.Getenv("CAMSCREEN_LOG_DIR")
	if logDir == "" {
		logDir = defaultLogDir
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fallback := filepath.Join(os.TempDir(), "cam-screen")
		if err2 := os.MkdirAll(fallback, 0755); err2 != nil {
			return err
		}
		logDir = fallback
	}

	logPath := filepath.Join(logDir, "system.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fallback := filepath.Join(os.TempDir(), "cam-screen")
		_ = os.MkdirAll(fallback, 0755)
		logPath = filepath.Join(fallback, "system.log")
		file, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
	}

	logMu.Lock()
	defer logMu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	if lv, ok := parseLevel(os.Getenv("CAMSCREEN_LOG_LEVEL")); ok {
		level = lv
	}
	rebuildLocked()
	return nil
}

// SetLevel 调整日志级别（debug/info/warn/error）
func SetLevel(s string) {
	lv, ok := parseLevel(s)
	if !ok {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	level = lv
	rebuildLocked()
}

// SetOutput 追加一个输出（nil 表示移除）。未调用 InitLogger 时也能输出，便于测试断言日志。
func SetOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	extraW = w
	rebuildLocked()
}

func parseLevel(s string) (zerolog.Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.NoLevel, false
	}
	if s == "warning" {
		s = "warn"
	}
	lv, err := zerolog.ParseLevel(s)
	if err != nil || lv == zerolog.NoLevel {
		return zerolog.NoLevel, false
	}
	return lv, true
}

func rebuildLocked() {
	writers := make([]io.Writer, 0, 3)
	if logFile != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006/01/02 15:04:05"})
		writers = append(writers, logFile)
	}
	if extraW != nil {
		writers = append(writers, extraW)
	}
	if len(writers) == 0 {
		root = zerolog.Nop()
		return
	}
	root = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + 2).
		Logger()
}

func maybeRotateLocked() {
	// 限流：最多 1 秒检查一次，避免每条日志都 stat
	now := time.Now().UnixNano()
	last := atomic.LoadInt64(&lastRotateCheck)
	if last != 0 && now-last < int64(time.Second) {
		return
	}
	atomic.StoreInt64(&lastRotateCheck, now)
	_ = rotateLocked(MaxLogSizeBytes)
}

func write(lv zerolog.Level, format string, v ...interface{}) {
	logMu.Lock()
	defer logMu.Unlock()
	maybeRotateLocked()
	root.WithLevel(lv).Msg(fmt.Sprintf(format, v...))
}

// Info 记录信息日志
func Info(format string, v ...interface{}) {
	write(zerolog.InfoLevel, format, v...)
}

// Error 记录错误日志
func Error(format string, v ...interface{}) {
	write(zerolog.ErrorLevel, format, v...)
}

// Warn 记录警告日志
func Warn(format string, v ...interface{}) {
	write(zerolog.WarnLevel, format, v...)
}

// Debug 记录调试日志
func Debug(format string, v ...interface{}) {
	write(zerolog.DebugLevel, format, v...)
}

// Fatal 记录致命错误并退出
func Fatal(format string, v ...interface{}) {
	write(zerolog.ErrorLevel, format, v...)
	os.Exit(1)
}

// Close 关闭日志文件
func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	rebuildLocked()
}

// CurrentLogPath 返回当前实际写入的日志文件路径
func CurrentLogPath() string {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile != nil {
		if name := strings.TrimSpace(logFile.Name()); name != "" {
			return name
		}
	}
	logDir := os.Getenv("CAMSCREEN_LOG_DIR")
	if logDir == "" {
		logDir = defaultLogDir
	}
	return filepath.Join(logDir, "system.log")
}

func cleanupRotatedLogs(dir string) {
	// 清理旧轮转日志：system.YYYYMMDD-HHMMSS.log
	matches, _ := filepath.Glob(filepath.Join(dir, "system.*.log"))
	if len(matches) <= MaxRotatedFiles {
		return
	}
	type fi struct {
		path string
		mod  time.Time
	}
	arr := make([]fi, 0, len(matches))
	for _, p := range matches {
		if st, err := os.Stat(p); err == nil {
			arr = append(arr, fi{path: p, mod: st.ModTime()})
		}
	}
	sort.Slice(arr, func(i, j int) bool { return arr[i].mod.After(arr[j].mod) })
	for i := MaxRotatedFiles; i < len(arr); i++ {
		_ = os.Remove(arr[i].path)
	}
}

// RotateLog 日志轮转（按大小）
func RotateLog(maxSize int64) error {
	logMu.Lock()
	defer logMu.Unlock()
	return rotateLocked(maxSize)
}

func rotateLocked(maxSize int64) error {
	if logFile == nil {
		return nil
	}
	stat, err := logFile.Stat()
	if err != nil {
		return err
	}
	if stat.Size() < maxSize {
		return nil
	}

	_ = logFile.Close()
	baseDir := filepath.Dir(logFile.Name())
	oldPath := filepath.Join(baseDir, "system.log")
	newPath := filepath.Join(baseDir, fmt.Sprintf("system.%s.log", time.Now().Format("20060102-150405")))
	_ = os.Rename(oldPath, newPath)

	file, err := os.OpenFile(oldPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		logFile = nil
		rebuildLocked()
		return err
	}
	logFile = file
	rebuildLocked()

	cleanupRotatedLogs(baseDir)
	return nil
}
