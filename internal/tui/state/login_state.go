package state

// LoginMode 登錄方式
type LoginMode int

const (
	LoginPassword LoginMode = iota
	LoginToken
)

// 登錄步驟
const (
	LoginStepUser    = 0 // 密碼模式: 用戶名 / 令牌模式: 令牌
	LoginStepSecret  = 1 // 密碼模式: 密碼 / 令牌模式: 是否保存
	LoginStepWaiting = 2 // 已提交，等待結果
)

// LoginState 登錄表單
type LoginState struct {
	Mode     LoginMode
	Step     int
	Username string
	Token    string
}

func NewLoginState() *LoginState {
	return &LoginState{}
}

// Reset 清空已輸入內容，保留登錄方式
func (s *LoginState) Reset() {
	s.Step = LoginStepUser
	s.Username = ""
	s.Token = ""
}

// Toggle 切換登錄方式
func (s *LoginState) Toggle() {
	if s.Mode == LoginPassword {
		s.Mode = LoginToken
	} else {
		s.Mode = LoginPassword
	}
	s.Reset()
}

// Masked 當前步驟是否需要掩碼輸入
func (s *LoginState) Masked() bool {
	if s.Mode == LoginPassword {
		return s.Step == LoginStepSecret
	}
	return s.Step == LoginStepUser
}

// Waiting 是否已提交登錄請求
func (s *LoginState) Waiting() bool {
	return s.Step == LoginStepWaiting
}
