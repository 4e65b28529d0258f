package appctx

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvName 運行環境變量，值為 production 時使用系統路徑
const EnvName = "ZSTATUS_ENV"

// Paths 定義應用程序所有的關鍵路徑
type Paths struct {
	BaseDir   string
	ConfigDir string
	DataDir   string
	LogDir    string
	BackupDir string

	ConfigFile    string
	MasterKeyFile string
	LogFile       string
	// EnvFile systemd 服務讀取的憑據文件
	EnvFile string
}

// NewPaths 解析並創建目錄，baseDir 為空時按運行環境選擇默認位置
func NewPaths(baseDir string) (*Paths, error) {
	if baseDir == "" {
		if isProduction() {
			baseDir = "/etc/zstatus"
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("無法獲取用戶主目錄: %w", err)
			}
			baseDir = filepath.Join(home, ".zstatus")
		}
	}

	absPath, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("無法解析絕對路徑: %w", err)
	}

	dataDir := filepath.Join(absPath, "data")

	logDir := filepath.Join(absPath, "logs")
	if isProduction() {
		logDir = "/var/log/zstatus"
	}

	paths := &Paths{
		BaseDir:       absPath,
		ConfigDir:     absPath,
		DataDir:       dataDir,
		LogDir:        logDir,
		BackupDir:     filepath.Join(absPath, "backups"),
		ConfigFile:    filepath.Join(absPath, "config.yaml"),
		MasterKeyFile: filepath.Join(dataDir, "master.key"),
		LogFile:       filepath.Join(logDir, "zstatus.log"),
		EnvFile:       filepath.Join(absPath, "zstatus.env"),
	}

	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.BackupDir, paths.LogDir} {
		perm := os.FileMode(0700)
		if dir == paths.LogDir {
			perm = 0755
		}
		if err := os.MkdirAll(dir, perm); err != nil {
			return nil, fmt.Errorf("無法創建目錄 %s: %w", dir, err)
		}
	}

	return paths, nil
}

func isProduction() bool {
	return os.Geteuid() == 0 || os.Getenv(EnvName) == "production"
}
