package main

import (
	"fmt"
	"io"

	"github.com/Yat-Muk/zstatus/internal/infra/backup"
	"github.com/Yat-Muk/zstatus/internal/pkg/appctx"
	"github.com/Yat-Muk/zstatus/internal/pkg/crypto"
)

func newBackupManager(paths *appctx.Paths, encryptor *crypto.Encryptor) (*backup.Manager, error) {
	return backup.NewManager(paths.BackupDir, paths.ConfigFile,
		encryptor.Bind(crypto.PurposeBackup), backup.DefaultRetention)
}

// runBackupCommand 列出或恢復配置備份，在加載配置之前執行
func runBackupCommand(w io.Writer, paths *appctx.Paths, restore string) error {
	encryptor, err := crypto.NewEncryptor(paths.MasterKeyFile)
	if err != nil {
		return fmt.Errorf("初始化加密器失敗: %w", err)
	}
	mgr, err := newBackupManager(paths, encryptor)
	if err != nil {
		return err
	}

	if restore != "" {
		// 恢復前再備份一次，避免誤操作丟失當前配置
		if _, err := mgr.Snapshot("pre-restore"); err != nil {
			return err
		}
		if err := mgr.Restore(restore); err != nil {
			return err
		}
		fmt.Fprintf(w, "✅ 已從 %s 恢復配置\n", restore)
		return nil
	}

	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintln(w, "暫無配置備份")
		return nil
	}
	for _, b := range backups {
		mark := "✓"
		if !b.Verified {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s  %s  %d B\n", mark, b.Name, b.ModTime.Format("2006-01-02 15:04:05"), b.Size)
	}
	return nil
}
