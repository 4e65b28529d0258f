package main

import (
	"os"
	"strings"
	"testing"

	"github.com/Yat-Muk/zstatus/internal/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBackupCommand_ListAndRestore(t *testing.T) {
	paths := setupTestEnvironment(t)

	var out strings.Builder
	require.NoError(t, runBackupCommand(&out, paths, ""))
	assert.Contains(t, out.String(), "暫無配置備份")

	require.NoError(t, os.WriteFile(paths.ConfigFile, []byte("version: 1\n"), 0600))
	enc, err := crypto.NewEncryptor(paths.MasterKeyFile)
	require.NoError(t, err)
	mgr, err := newBackupManager(paths, enc)
	require.NoError(t, err)
	name, err := mgr.Snapshot("test")
	require.NoError(t, err)
	require.NotEmpty(t, name)

	out.Reset()
	require.NoError(t, runBackupCommand(&out, paths, ""))
	assert.Contains(t, out.String(), name)

	require.NoError(t, os.WriteFile(paths.ConfigFile, []byte("version: 99\n"), 0600))
	out.Reset()
	require.NoError(t, runBackupCommand(&out, paths, name))

	data, err := os.ReadFile(paths.ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))

	list, err := mgr.List()
	require.NoError(t, err)
	assert.Len(t, list, 2, "恢復前的配置也被備份")
}

func TestRunBackupCommand_UnknownBackup(t *testing.T) {
	paths := setupTestEnvironment(t)

	var out strings.Builder
	assert.Error(t, runBackupCommand(&out, paths, "config-missing.bak"))
}
