package state

import (
	"strings"
	"testing"

	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/Yat-Muk/zstatus/internal/pkg/inputvalidator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormState_AddFlow(t *testing.T) {
	f := NewFormState()
	f.StartAdd()

	_, err := f.Submit("")
	require.Error(t, err, "添加時名稱不能為空")
	assert.Equal(t, FieldName, f.Step)

	done, err := f.Submit("Mail")
	require.NoError(t, err)
	assert.False(t, done)

	_, err = f.Submit("SMTP relay")
	require.NoError(t, err)

	assert.Equal(t, "online", f.Current())
	_, err = f.Submit("Warning")
	require.NoError(t, err)
	assert.Equal(t, service.StatusWarning, f.Draft.Status)

	assert.Equal(t, "0%", f.Current(), "未填寫時按狀態推導")
	done, err = f.Submit("")
	require.NoError(t, err)
	assert.True(t, done)

	svc := f.NewService()
	assert.Equal(t, "Mail", svc.Name)
	assert.Equal(t, "SMTP relay", svc.Description)
	assert.Equal(t, service.StatusWarning, svc.Status)
	assert.Empty(t, svc.Uptime, "可用率交給協調器補全")
}

func TestFormState_AddWithUptime(t *testing.T) {
	f := NewFormState()
	f.StartAdd()

	for _, in := range []string{"API", "", "online"} {
		_, err := f.Submit(in)
		require.NoError(t, err)
	}
	done, err := f.Submit("98.5")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "98.5%", f.NewService().Uptime)
}

func TestFormState_InvalidInputKeepsStep(t *testing.T) {
	f := NewFormState()
	f.StartAdd()
	f.Step = FieldStatus

	_, err := f.Submit("degraded")
	require.Error(t, err)
	assert.Equal(t, FieldStatus, f.Step)

	f.Step = FieldUptime
	_, err = f.Submit("150")
	require.Error(t, err)
	assert.Equal(t, FieldUptime, f.Step)
}

func TestFormState_EditEmptyKeepsValues(t *testing.T) {
	orig := service.Service{
		ID:          "1",
		Name:        "Web",
		Description: "Host: web01",
		Status:      service.StatusOnline,
		Uptime:      "99.9%",
		HostID:      "1",
	}

	f := NewFormState()
	f.StartEdit(orig)

	for _, in := range []string{"", "", "", ""} {
		_, err := f.Submit(in)
		require.NoError(t, err)
	}
	assert.True(t, f.Patch().IsEmpty())
}

func TestFormState_EditPatchOnlyChanged(t *testing.T) {
	orig := service.Service{ID: "1", Name: "Web", Status: service.StatusOnline, Uptime: "99.9%"}

	f := NewFormState()
	f.StartEdit(orig)

	inputs := []string{"", "", "maintenance", ""}
	var done bool
	for _, in := range inputs {
		var err error
		done, err = f.Submit(in)
		require.NoError(t, err)
	}
	require.True(t, done)

	p := f.Patch()
	require.NotNil(t, p.Status)
	assert.Equal(t, service.StatusMaintenance, *p.Status)
	assert.Nil(t, p.Name)
	assert.Nil(t, p.Uptime, "空輸入保留原可用率")
}

func TestFormState_LengthLimits(t *testing.T) {
	f := NewFormState()
	f.StartAdd()

	_, err := f.Submit(strings.Repeat("服", inputvalidator.MaxNameLength+1))
	require.Error(t, err)
	assert.Equal(t, FieldName, f.Step)

	_, err = f.Submit("Web\x07-01")
	require.NoError(t, err)
	assert.Equal(t, "Web-01", f.Draft.Name, "控制字符被移除")

	_, err = f.Submit(strings.Repeat("x", inputvalidator.MaxDescriptionLength+1))
	require.Error(t, err)
	assert.Equal(t, FieldDescription, f.Step)
}
