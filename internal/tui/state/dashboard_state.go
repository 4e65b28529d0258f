package state

// DashboardState 管理後台
type DashboardState struct {
	PendingDeleteID   string // 等待 Y/N 確認的服務
	PendingDeleteName string
}

func NewDashboardState() *DashboardState {
	return &DashboardState{}
}

// RequestDelete 進入刪除確認
func (s *DashboardState) RequestDelete(id, name string) {
	s.PendingDeleteID = id
	s.PendingDeleteName = name
}

// Confirming 是否在等待刪除確認
func (s *DashboardState) Confirming() bool {
	return s.PendingDeleteID != ""
}

// CancelDelete 退出刪除確認
func (s *DashboardState) CancelDelete() {
	s.PendingDeleteID = ""
	s.PendingDeleteName = ""
}
