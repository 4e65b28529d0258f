package state

import (
	"github.com/Yat-Muk/zstatus/internal/application"
	"github.com/Yat-Muk/zstatus/internal/domain/service"
)

// SessionState 最近一次收到的會話快照
type SessionState struct {
	Snapshot application.Snapshot
}

func NewSessionState() *SessionState {
	return &SessionState{}
}

// Apply 替換為新快照
func (s *SessionState) Apply(snap application.Snapshot) {
	s.Snapshot = snap
}

func (s *SessionState) IsAuthenticated() bool {
	return s.Snapshot.IsAuthenticated
}

func (s *SessionState) Services() []service.Service {
	return s.Snapshot.Services
}

// ServiceAt 按 1 起始的序號查找服務
func (s *SessionState) ServiceAt(n int) (service.Service, bool) {
	if n < 1 || n > len(s.Snapshot.Services) {
		return service.Service{}, false
	}
	return s.Snapshot.Services[n-1], true
}
