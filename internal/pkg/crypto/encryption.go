package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// EncryptedPrefix 加密值的前綴標識
	EncryptedPrefix = "enc:"
	// KeySize XChaCha20-Poly1305 密鑰長度
	KeySize = chacha20poly1305.KeySize
	// MasterKeyEnv 主密鑰環境變量
	MasterKeyEnv = "ZSTATUS_MASTER_KEY"
)

// 密文用途，作為附加數據參與認證，不同用途的密文不能互換
const (
	PurposeConfigToken = "zstatus/config/zabbix.token"
	PurposeBackup      = "zstatus/backup"
)

// Encryptor 配置敏感字段加密器
type Encryptor struct {
	key []byte
	aad []byte
}

// Bind 返回綁定用途的加密器，與原加密器共享密鑰
func (e *Encryptor) Bind(purpose string) *Encryptor {
	return &Encryptor{key: e.key, aad: []byte(purpose)}
}

// NewEncryptor 創建加密器
// 密鑰來源優先級: 環境變量 > 密鑰文件 > 自動生成
func NewEncryptor(keyPath string) (*Encryptor, error) {
	if keyHex := os.Getenv(MasterKeyEnv); keyHex != "" {
		key, err := decodeKey(keyHex)
		if err != nil {
			return nil, fmt.Errorf("環境變量 %s 格式錯誤: %w", MasterKeyEnv, err)
		}
		return &Encryptor{key: key}, nil
	}

	if content, err := os.ReadFile(keyPath); err == nil {
		key, err := decodeKey(strings.TrimSpace(string(content)))
		if err != nil {
			return nil, fmt.Errorf("密鑰文件內容無效: %w", err)
		}
		return &Encryptor{key: key}, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("無法讀取密鑰文件: %w", err)
	}

	// 首次運行
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("生成隨機密鑰失敗: %w", err)
	}

	if err := atomicWriteKey(keyPath, key); err != nil {
		return nil, fmt.Errorf("保存新密鑰失敗: %w", err)
	}

	return &Encryptor{key: key}, nil
}

// NewEncryptorWithKey 使用給定密鑰創建加密器
func NewEncryptorWithKey(key []byte) (*Encryptor, error) {
	if len(key) != KeySize {
		return nil, errors.New("無效的密鑰長度")
	}
	k := make([]byte, KeySize)
	copy(k, key)
	return &Encryptor{key: k}, nil
}

// atomicWriteKey 原子寫入密鑰文件
func atomicWriteKey(filename string, key []byte) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".masterkey.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(hex.EncodeToString(key)); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return err
	}
	tmpFile.Close()

	if err := os.Chmod(tmpFile.Name(), 0600); err != nil {
		return err
	}

	return os.Rename(tmpFile.Name(), filename)
}

func decodeKey(input string) ([]byte, error) {
	key, err := hex.DecodeString(input)
	if err == nil && len(key) == KeySize {
		return key, nil
	}
	key, err = base64.StdEncoding.DecodeString(input)
	if err == nil && len(key) == KeySize {
		return key, nil
	}
	return nil, errors.New("無效的密鑰格式或長度")
}

// Encrypt 加密，空字符串原樣返回
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	aead, err := chacha20poly1305.NewX(e.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), e.aad)
	return EncryptedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt 解密
func (e *Encryptor) Decrypt(encrypted string) (string, error) {
	if !IsEncrypted(encrypted) {
		return "", errors.New("數據未加密")
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(encrypted, EncryptedPrefix))
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(e.key)
	if err != nil {
		return "", err
	}

	if len(data) < aead.NonceSize() {
		return "", errors.New("密文數據過短")
	}

	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, e.aad)
	if err != nil {
		return "", fmt.Errorf("解密失敗: %w", err)
	}

	return string(plaintext), nil
}

// IsEncrypted 檢查字符串是否已加密
func IsEncrypted(text string) bool {
	return strings.HasPrefix(text, EncryptedPrefix)
}

// Fingerprint 密鑰指紋，用於在日誌中區分不同密鑰，不洩露密鑰本身
func (e *Encryptor) Fingerprint() string {
	sum := sha256.Sum256(e.key)
	return hex.EncodeToString(sum[:4])
}
