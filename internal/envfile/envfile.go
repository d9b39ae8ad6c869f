package envfile

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
)

// 设备端部署时“少命令行”：自动在固定位置生成/加载 .env
//
// - Linux 设备：/etc/cam-screen/.env
// - 其它平台：二进制同目录 .env（便于本地调试）
func Bootstrap() {
	_ = ensureAndLoad(DefaultPath())
}

// DefaultPath 返回当前平台的 .env 位置
func DefaultPath() string {
	if runtime.GOOS == "linux" {
		return "/etc/cam-screen/.env"
	}
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join(".", ".env")
	}
	return filepath.Join(filepath.Dir(exe), ".env")
}

func ensureAndLoad(dotenvPath string) error {
	if _, err := os.Stat(dotenvPath); os.IsNotExist(err) {
		b := []byte(envExample)
		if len(bytes.TrimSpace(b)) > 0 {
			_ = os.MkdirAll(filepath.Dir(dotenvPath), 0o755)
			_ = os.WriteFile(dotenvPath, b, 0o644)
		}
	}
	return Load(dotenvPath)
}

// Load 解析 dotenv（KEY=VALUE），只会 set 尚未在外部环境存在的键。
func Load(path string) error {
	return godotenv.Load(path)
}

const envExample = `# cam-screen 默认环境变量模板（首次运行会自动写入）

# 配置文件路径（可选；默认 Linux: /etc/cam-screen/config.json）
CAMSCREEN_CONFIG_PATH=

# 日志目录与级别（可选；默认 /var/log/cam-screen, info）
CAMSCREEN_LOG_DIR=
CAMSCREEN_LOG_LEVEL=
`
