package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// DefaultDeviceName 默认设备名称
// 可在编译时覆盖：
//
//	go build -ldflags "-X 'cam-screen/config.DefaultDeviceName=EEPW Digit Pad'"
var DefaultDeviceName = "cam-screen"

// 分类器模式
const (
	ClassifierDense  = "dense"
	ClassifierRemote = "remote"
	ClassifierNone   = "none"
)

// Config 应用配置
type Config struct {
	Device     DeviceConfig     `json:"device" yaml:"device"`
	Display    DisplayConfig    `json:"display" yaml:"display"`
	Grid       GridConfig       `json:"grid" yaml:"grid"`
	Memory     MemoryConfig     `json:"memory" yaml:"memory"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Log        LogConfig        `json:"log" yaml:"log"`

	path string
}

// DeviceConfig 设备配置
type DeviceConfig struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// DisplayConfig 屏幕配置
type DisplayConfig struct {
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
	Title      string `json:"title" yaml:"title"`
	MaxObjects int    `json:"max_objects" yaml:"max_objects"` // 屏幕对象上限（0 表示不限制）
	FrameMS    int    `json:"frame_ms" yaml:"frame_ms"`
	Brightness int    `json:"brightness" yaml:"brightness"` // 0~100
}

// GridConfig 网格构建参数
type GridConfig struct {
	BatchSize    int `json:"batch_size" yaml:"batch_size"`
	BatchPauseMS int `json:"batch_pause_ms" yaml:"batch_pause_ms"`
	RowPauseMS   int `json:"row_pause_ms" yaml:"row_pause_ms"`
	WarmupFrames int `json:"warmup_frames" yaml:"warmup_frames"`
}

// MemoryConfig 内存采样间隔
type MemoryConfig struct {
	BuildIntervalSec int `json:"build_interval_sec" yaml:"build_interval_sec"`
	LoopIntervalSec  int `json:"loop_interval_sec" yaml:"loop_interval_sec"`
}

// ClassifierConfig 分类器配置
type ClassifierConfig struct {
	Mode          string `json:"mode" yaml:"mode"`
	ModelPath     string `json:"model_path" yaml:"model_path"`
	RemoteURL     string `json:"remote_url" yaml:"remote_url"`
	TimeoutSec    int    `json:"timeout_sec" yaml:"timeout_sec"`
	LabelCapacity int    `json:"label_capacity" yaml:"label_capacity"`
	Watch         bool   `json:"watch" yaml:"watch"` // 模型文件变化时热加载
}

// ServerConfig 诊断 API
type ServerConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Host      string `json:"host" yaml:"host"`
	Port      int    `json:"port" yaml:"port"`
	JWTSecret string `json:"jwt_secret,omitempty" yaml:"jwt_secret,omitempty"` // 为空则不鉴权
}

// LogConfig 日志配置（环境变量 CAMSCREEN_LOG_LEVEL 优先）
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			ID:   "",
			Name: DefaultDeviceName,
		},
		Display: DisplayConfig{
			Width:      480,
			Height:     800,
			Title:      "Digital recognization from EEPW",
			MaxObjects: 1024,
			FrameMS:    10,
			Brightness: 100,
		},
		Grid: GridConfig{
			BatchSize:    50,
			BatchPauseMS: 10,
			RowPauseMS:   20,
			WarmupFrames: 10,
		},
		Memory: MemoryConfig{
			BuildIntervalSec: 5,
			LoopIntervalSec:  10,
		},
		Classifier: ClassifierConfig{
			Mode:          ClassifierNone,
			TimeoutSec:    5,
			LabelCapacity: 50,
		},
		Server: ServerConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    18080,
		},
		Log: LogConfig{Level: "info"},
	}
}

func defaultConfigPath() string {
	// Linux 设备侧保持 /etc；本地开发默认当前工作目录
	if runtime.GOOS == "linux" {
		return "/etc/cam-screen/config.json"
	}
	if wd, err := os.Getwd(); err == nil && strings.TrimSpace(wd) != "" {
		return filepath.Join(wd, "config.json")
	}
	return filepath.Join(os.TempDir(), "cam-screen", "config.json")
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	configPath := os.Getenv("CAMSCREEN_CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	return configPath
}

// LoadConfig 加载配置
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(GetConfigPath())
}

// LoadConfigFrom 从指定路径加载配置；文件不存在时写入默认配置
func LoadConfigFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.path = configPath
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// 缺失的字段沿用默认值
	cfg := DefaultConfig()
	if isYAML(configPath) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("解析配置失败 %s: %w", configPath, err)
	}
	cfg.path = configPath

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效 %s: %w", configPath, err)
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Path 返回配置来源路径
func (c *Config) Path() string {
	if c.path == "" {
		return GetConfigPath()
	}
	return c.path
}

// Save 保存配置（按扩展名选择 JSON / YAML）
func (c *Config) Save() error {
	configPath := c.Path()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(configPath) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if err := c.Display.Validate(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if err := c.Memory.Validate(); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if err := c.Classifier.Validate(); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Validate 验证屏幕配置
func (c *DisplayConfig) Validate() error {
	return validation.ValidateStruct(c,
		// 至少能放下 28 个 1px 单元格
		validation.Field(&c.Width, validation.Required, validation.Min(28)),
		validation.Field(&c.Height, validation.Required, validation.Min(28)),
		validation.Field(&c.MaxObjects, validation.Min(0)),
		validation.Field(&c.FrameMS, validation.Required, validation.Min(1), validation.Max(1000)),
		validation.Field(&c.Brightness, validation.Min(0), validation.Max(100)),
	)
}

// Validate 验证网格配置
func (c *GridConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BatchSize, validation.Required, validation.Min(1)),
		validation.Field(&c.BatchPauseMS, validation.Min(0)),
		validation.Field(&c.RowPauseMS, validation.Min(0)),
		validation.Field(&c.WarmupFrames, validation.Min(0)),
	)
}

// Validate 验证内存采样配置
func (c *MemoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BuildIntervalSec, validation.Required, validation.Min(1)),
		validation.Field(&c.LoopIntervalSec, validation.Required, validation.Min(1)),
	)
}

// Validate 验证分类器配置
func (c *ClassifierConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(ClassifierDense, ClassifierRemote, ClassifierNone)),
		validation.Field(&c.ModelPath, validation.When(c.Mode == ClassifierDense, validation.Required)),
		validation.Field(&c.RemoteURL, validation.When(c.Mode == ClassifierRemote, validation.Required)),
		validation.Field(&c.TimeoutSec, validation.Min(0)),
		validation.Field(&c.LabelCapacity, validation.Required, validation.Min(2)),
	)
}

// Validate 验证 API 配置
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.When(c.Enabled, validation.Required, validation.Min(1), validation.Max(65535))),
	)
}

// Address 返回监听地址
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// FrameInterval 每帧间隔
func (c *DisplayConfig) FrameInterval() time.Duration {
	return time.Duration(c.FrameMS) * time.Millisecond
}

// BatchPause 每批之间的让出时间
func (c *GridConfig) BatchPause() time.Duration {
	return time.Duration(c.BatchPauseMS) * time.Millisecond
}

// RowPause 每行之间的让出时间
func (c *GridConfig) RowPause() time.Duration {
	return time.Duration(c.RowPauseMS) * time.Millisecond
}

// BuildInterval 构建期采样间隔
func (c *MemoryConfig) BuildInterval() time.Duration {
	return time.Duration(c.BuildIntervalSec) * time.Second
}

// LoopInterval 主循环采样间隔
func (c *MemoryConfig) LoopInterval() time.Duration {
	return time.Duration(c.LoopIntervalSec) * time.Second
}

// Timeout 远程分类超时
func (c *ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}
