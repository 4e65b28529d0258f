package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Yat-Muk/zstatus/internal/pkg/errors"
)

// Status 服務運行狀態
type Status string

const (
	StatusOnline      Status = "online"
	StatusOffline     Status = "offline"
	StatusWarning     Status = "warning"
	StatusMaintenance Status = "maintenance"
)

// Uptime 顯示值
const (
	UptimeOnline = "99.9%"
	UptimeDown   = "0%"
)

// AllStatuses 按顯示順序排列
var AllStatuses = []Status{StatusOnline, StatusWarning, StatusOffline, StatusMaintenance}

// IsValid 檢查狀態是否為四個合法值之一
func (s Status) IsValid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusWarning, StatusMaintenance:
		return true
	default:
		return false
	}
}

// Label 狀態的中文標籤
func (s Status) Label() string {
	switch s {
	case StatusOnline:
		return "運行中"
	case StatusOffline:
		return "離線"
	case StatusWarning:
		return "警告"
	case StatusMaintenance:
		return "維護中"
	default:
		return "未知"
	}
}

// ParseStatus 解析用戶輸入的狀態
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidStatus, s)
	}
	return st, nil
}

// UptimeFor 根據狀態返回默認可用率
func UptimeFor(s Status) string {
	if s == StatusOnline {
		return UptimeOnline
	}
	return UptimeDown
}

// NormalizeUptime 校驗可用率 (0-100)，統一為 "99.9%" 格式
func NormalizeUptime(input string) (string, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(input), "%")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 100 {
		return "", fmt.Errorf("無效可用率: %s (範圍 0-100)", input)
	}
	return raw + "%", nil
}

// ParseUptime 把 "99.9%" 解析為數值，無法解析時返回 0
func ParseUptime(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0
	}
	return v
}

// Service 一條展示用的服務記錄 (值類型，按 ID 識別)
type Service struct {
	ID           string
	Name         string
	Description  string
	Status       Status
	LastCheck    time.Time
	Uptime       string
	ResponseTime *int // 毫秒，可為空
	HostID       string
	ItemID       string
}

// IsLocal 是否為本地添加的服務 (沒有關聯 Zabbix 主機)
func (s Service) IsLocal() bool {
	return s.HostID == ""
}

// Clone 深拷貝
func (s Service) Clone() Service {
	if s.ResponseTime != nil {
		rt := *s.ResponseTime
		s.ResponseTime = &rt
	}
	return s
}

// Patch 局部更新，nil 字段保持不變
type Patch struct {
	Name         *string
	Description  *string
	Status       *Status
	LastCheck    *time.Time
	Uptime       *string
	ResponseTime *int
	HostID       *string
	ItemID       *string
}

// IsEmpty 沒有任何字段需要更新
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil &&
		p.LastCheck == nil && p.Uptime == nil && p.ResponseTime == nil &&
		p.HostID == nil && p.ItemID == nil
}

// Apply 返回應用補丁後的新值，ID 不可變
func (s Service) Apply(p Patch) Service {
	out := s.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.LastCheck != nil {
		out.LastCheck = *p.LastCheck
	}
	if p.Uptime != nil {
		out.Uptime = *p.Uptime
	}
	if p.ResponseTime != nil {
		rt := *p.ResponseTime
		out.ResponseTime = &rt
	}
	if p.HostID != nil {
		out.HostID = *p.HostID
	}
	if p.ItemID != nil {
		out.ItemID = *p.ItemID
	}
	return out
}

// Counts 按狀態統計數量
func Counts(services []Service) map[Status]int {
	counts := make(map[Status]int, len(AllStatuses))
	for _, s := range services {
		counts[s.Status]++
	}
	return counts
}
