package application

import (
	"context"

	"github.com/Yat-Muk/zstatus/internal/domain/service"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_remote_api.go -package=mocks

// RemoteAPI 會話協調器依賴的 Zabbix 客戶端能力
type RemoteAPI interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	SetToken(token string)
	ListHosts(ctx context.Context) ([]service.Host, error)
	ListTriggers(ctx context.Context, hostIDs []string) ([]service.Trigger, error)
	Logout(ctx context.Context)
}
