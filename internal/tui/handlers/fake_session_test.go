package handlers

import (
	"context"
	"sync"

	"github.com/Yat-Muk/zstatus/internal/application"
	"github.com/Yat-Muk/zstatus/internal/domain/service"
)

// fakeSession 內存實現，記錄調用
type fakeSession struct {
	mu        sync.Mutex
	snap      application.Snapshot
	listener  application.Listener
	authErr   error
	refreshFn func() error

	logins    []string
	tokens    []string
	logouts   int
	refreshes int
	nextID    int
}

func (f *fakeSession) Authenticate(_ context.Context, username, password string) error {
	f.mu.Lock()
	f.logins = append(f.logins, username+":"+password)
	err := f.authErr
	if err == nil {
		f.snap.IsAuthenticated = true
	}
	f.mu.Unlock()
	return err
}

func (f *fakeSession) AuthenticateWithToken(token string) error {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.snap.IsAuthenticated = true
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) Logout(context.Context) {
	f.mu.Lock()
	f.logouts++
	f.snap = application.Snapshot{}
	f.mu.Unlock()
}

func (f *fakeSession) Refresh(context.Context) error {
	f.mu.Lock()
	f.refreshes++
	fn := f.refreshFn
	f.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return nil
}

func (f *fakeSession) AddService(draft service.Service) service.Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	draft.ID = string(rune('a' + f.nextID - 1))
	if draft.Uptime == "" {
		draft.Uptime = service.UptimeFor(draft.Status)
	}
	f.snap.Services = append(f.snap.Services, draft)
	return draft
}

func (f *fakeSession) UpdateService(id string, patch service.Patch) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.snap.Services {
		if s.ID == id {
			f.snap.Services[i] = s.Apply(patch)
			return true
		}
	}
	return false
}

func (f *fakeSession) DeleteService(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.snap.Services {
		if s.ID == id {
			f.snap.Services = append(f.snap.Services[:i], f.snap.Services[i+1:]...)
			return true
		}
	}
	return false
}

func (f *fakeSession) Snapshot() application.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.snap
	out.Services = append([]service.Service(nil), f.snap.Services...)
	return out
}

func (f *fakeSession) Subscribe(fn application.Listener) func() {
	f.mu.Lock()
	f.listener = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.listener = nil
		f.mu.Unlock()
	}
}

// emit 模擬協調器推送
func (f *fakeSession) emit(snap application.Snapshot) {
	f.mu.Lock()
	fn := f.listener
	f.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
