package state

import (
	"github.com/Yat-Muk/zstatus/internal/pkg/inputvalidator"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	ttea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View 定義視圖枚舉
type View int

const (
	StatusPageView View = iota
	AdminLoginView
	AdminDashboardView
	ServiceFormView
)

// StatusType 狀態類型
type StatusType int

const (
	StatusReady StatusType = iota
	StatusSuccess
	StatusError
	StatusInfo
	StatusWarn
)

// StatusMsg 狀態欄消息
type StatusMsg struct {
	Type    StatusType
	Message string
	Detail  string
}

// UIState UI 核心狀態
type UIState struct {
	CurrentView  View
	PreviousView View
	TextInput    textinput.Model
	Spinner      spinner.Model
	Width        int
	Height       int
	Status       StatusMsg
}

// NewUIState 創建 UI 狀態
func NewUIState() *UIState {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = inputvalidator.MaxInputBuffer
	ti.Width = 50
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &UIState{
		CurrentView: StatusPageView,
		TextInput:   ti,
		Width:       80,
		Height:      24,
		Status:      StatusMsg{Type: StatusReady},
		Spinner:     s,
	}
}

// SwitchView 切換視圖
func (s *UIState) SwitchView(v View) ttea.Cmd {
	s.PreviousView = s.CurrentView
	s.CurrentView = v
	s.TextInput.Reset()
	s.SetMasked(false)

	// 錯誤狀態保留給用戶看
	if s.Status.Type != StatusError {
		s.Status = StatusMsg{Type: StatusReady}
	}

	return s.TextInput.Focus()
}

// SetStatus 設置狀態欄消息
func (s *UIState) SetStatus(t StatusType, msg, detail string) {
	s.Status = StatusMsg{
		Type:    t,
		Message: msg,
		Detail:  detail,
	}
}

// ClearStatus 清空狀態欄
func (s *UIState) ClearStatus() {
	s.Status = StatusMsg{Type: StatusReady}
}

// SetMasked 切換密碼掩碼輸入
func (s *UIState) SetMasked(masked bool) {
	if masked {
		s.TextInput.EchoMode = textinput.EchoPassword
		s.TextInput.EchoCharacter = '•'
		return
	}
	s.TextInput.EchoMode = textinput.EchoNormal
}

// UpdateInput 更新輸入框
func (s *UIState) UpdateInput(msg ttea.Msg) ttea.Cmd {
	var cmd ttea.Cmd
	s.TextInput, cmd = s.TextInput.Update(msg)
	return cmd
}

func (s *UIState) GetInputBuffer() string {
	return s.TextInput.Value()
}

func (s *UIState) ClearInput() {
	s.TextInput.Reset()
}

// UpdateSize 更新尺寸
func (s *UIState) UpdateSize(w, h int) {
	s.Width = w
	s.Height = h
}
