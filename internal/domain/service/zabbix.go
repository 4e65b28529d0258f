package service

// Zabbix API 返回的原始記錄，字段均為字符串

// HostStatusUnmonitored host.status 為 "1" 表示未監控 (視為維護)
const HostStatusUnmonitored = "1"

// TriggerValueProblem trigger.value 為 "1" 表示問題狀態
const TriggerValueProblem = "1"

// HighSeverityThreshold 達到此優先級 (High) 的問題觸發器使服務離線
const HighSeverityThreshold = 4

// Host 監控主機
type Host struct {
	HostID   string       `json:"hostid"`
	Host     string       `json:"host"`
	Name     string       `json:"name"`
	Status   string       `json:"status"`
	Triggers []TriggerRef `json:"triggers,omitempty"`
	Items    []Item       `json:"items,omitempty"`
}

// DisplayName 可見名稱，為空時退回技術名
func (h Host) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.Host
}

// TriggerRef 主機內嵌的觸發器引用
type TriggerRef struct {
	TriggerID   string `json:"triggerid"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Value       string `json:"value,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// Trigger 觸發器
type Trigger struct {
	TriggerID   string `json:"triggerid"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Value       string `json:"value"`
	Priority    string `json:"priority"`
}

// Item 監控項
type Item struct {
	ItemID    string `json:"itemid"`
	Name      string `json:"name"`
	LastValue string `json:"lastvalue"`
	LastClock string `json:"lastclock"`
	HostID    string `json:"hostid,omitempty"`
}
