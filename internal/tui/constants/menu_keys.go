package constants

const (
	// ==========================================
	// 狀態頁 (Status Page)
	// ==========================================
	KeyStatus_Admin   = "1" // 進入管理後台
	KeyStatus_Refresh = "r" // 手動刷新
	KeyStatus_Quit    = "q" // 退出程序

	// ==========================================
	// 管理後台 (Admin Dashboard)
	// ==========================================
	KeyDash_Add     = "a" // 添加服務
	KeyDash_Edit    = "e" // 編輯服務，後接序號 (e2)
	KeyDash_Delete  = "d" // 刪除服務，後接序號 (d2)
	KeyDash_Refresh = "r" // 手動刷新
	KeyDash_Logout  = "l" // 登出

	// 確認
	KeyConfirm_Yes = "y"
	KeyConfirm_No  = "n"
)
