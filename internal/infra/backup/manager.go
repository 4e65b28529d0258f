package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Yat-Muk/zstatus/internal/pkg/crypto"
)

const (
	BackupFileMode os.FileMode = 0600
	BackupDirMode  os.FileMode = 0700
	ChecksumSuffix             = ".sha256"

	backupSuffix = ".bak"
	lastHashFile = ".last-hash"
)

// Cipher 備份內容的加解密
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encrypted string) (string, error)
}

// RetentionPolicy 保留策略，零值表示不限制
type RetentionPolicy struct {
	MaxFiles int
	MaxAge   time.Duration
}

// DefaultRetention 保留最近 10 份、30 天內的備份
var DefaultRetention = RetentionPolicy{MaxFiles: 10, MaxAge: 30 * 24 * time.Hour}

type BackupFile struct {
	Name     string
	Path     string
	ModTime  time.Time
	Size     int64
	Verified bool
}

// Manager 在寫入前為配置文件生成加密快照
type Manager struct {
	backupDir string
	srcPath   string
	retention RetentionPolicy
	cipher    Cipher
	now       func() time.Time
}

func NewManager(backupDir, srcPath string, cipher Cipher, retention RetentionPolicy) (*Manager, error) {
	if cipher == nil {
		return nil, errors.New("backup cipher is required")
	}
	if err := os.MkdirAll(backupDir, BackupDirMode); err != nil {
		return nil, fmt.Errorf("創建備份目錄失敗: %w", err)
	}
	return &Manager{
		backupDir: backupDir,
		srcPath:   srcPath,
		retention: retention,
		cipher:    cipher,
		now:       time.Now,
	}, nil
}

// Snapshot 備份當前配置文件，返回備份名。
// 源文件不存在或內容與上次備份相同時返回空名。
func (m *Manager) Snapshot(tag string) (string, error) {
	data, err := os.ReadFile(m.srcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("讀取源文件失敗: %w", err)
	}

	hash := sha256.Sum256(data)
	hashStr := hex.EncodeToString(hash[:])
	if m.isDuplicateContent(hashStr) {
		return "", nil
	}

	encrypted, err := m.cipher.Encrypt(string(data))
	if err != nil {
		return "", fmt.Errorf("加密失敗: %w", err)
	}

	name := fmt.Sprintf("config-%s%s", m.now().Format("20060102-150405.000"), backupSuffix)
	if tag != "" {
		name = fmt.Sprintf("config-%s-%s%s", m.now().Format("20060102-150405.000"), tag, backupSuffix)
	}
	dstPath := filepath.Join(m.backupDir, name)

	if err := os.WriteFile(dstPath, []byte(encrypted), BackupFileMode); err != nil {
		return "", fmt.Errorf("寫入備份失敗: %w", err)
	}
	if err := writeAtomic(dstPath+ChecksumSuffix, []byte(checksum([]byte(encrypted)))); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("生成校驗文件失敗: %w", err)
	}

	_ = writeAtomic(filepath.Join(m.backupDir, lastHashFile), []byte(hashStr))
	m.enforcePolicy()

	return name, nil
}

// Restore 校驗並解密備份，原子替換配置文件
func (m *Manager) Restore(name string) error {
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, backupSuffix) {
		return fmt.Errorf("無效的備份名: %q", name)
	}

	srcPath := filepath.Join(m.backupDir, name)
	encrypted, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("讀取備份文件失敗: %w", err)
	}
	if !verifyChecksum(srcPath, encrypted) {
		return errors.New("備份完整性校驗失敗")
	}

	plain, err := m.cipher.Decrypt(string(encrypted))
	if err != nil {
		return fmt.Errorf("解密失敗: %w", err)
	}

	if err := writeAtomic(m.srcPath, []byte(plain)); err != nil {
		return fmt.Errorf("替換配置文件失敗: %w", err)
	}
	return nil
}

// List 按時間倒序列出備份
func (m *Manager) List() ([]BackupFile, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupFile{}, nil
		}
		return nil, fmt.Errorf("讀取備份目錄失敗: %w", err)
	}

	var backups []BackupFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(m.backupDir, entry.Name())
		var verified bool
		if data, err := os.ReadFile(path); err == nil {
			verified = verifyChecksum(path, data)
		}

		backups = append(backups, BackupFile{
			Name:     entry.Name(),
			Path:     path,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
			Verified: verified,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].ModTime.Equal(backups[j].ModTime) {
			return backups[i].Name > backups[j].Name
		}
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

func (m *Manager) enforcePolicy() {
	backups, err := m.List()
	if err != nil {
		return
	}

	now := m.now()
	for i, b := range backups {
		expired := m.retention.MaxAge > 0 && now.Sub(b.ModTime) > m.retention.MaxAge
		if (m.retention.MaxFiles > 0 && i >= m.retention.MaxFiles) || expired {
			os.Remove(b.Path)
			os.Remove(b.Path + ChecksumSuffix)
		}
	}
}

func (m *Manager) isDuplicateContent(hash string) bool {
	last, err := os.ReadFile(filepath.Join(m.backupDir, lastHashFile))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(last)) == hash
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func verifyChecksum(path string, data []byte) bool {
	expected, err := os.ReadFile(path + ChecksumSuffix)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(expected)) == checksum(data)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, BackupFileMode); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

var _ Cipher = (*crypto.Encryptor)(nil)
