package model

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Model 實現 tea.Model，把消息交給 Router
type Model struct {
	router    *Router
	closeOnce sync.Once
}

func NewModel(router *Router) *Model {
	return &Model{router: router}
}

func (m *Model) Init() tea.Cmd {
	return m.router.InitModel()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.router.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	return m.router.View()
}

// Close 取消快照訂閱，程序退出後調用，可重複調用
func (m *Model) Close() {
	m.closeOnce.Do(m.router.Close)
}
