package service

import (
	"strconv"
	"time"
)

// DeriveServices 把主機與觸發器映射為服務列表，順序與主機一致
func DeriveServices(hosts []Host, triggers []Trigger, fetchedAt time.Time) []Service {
	services := make([]Service, 0, len(hosts))
	if len(hosts) == 0 {
		return services
	}

	byID := make(map[string]Trigger, len(triggers))
	for _, t := range triggers {
		byID[t.TriggerID] = t
	}

	for _, h := range hosts {
		status := DeriveStatus(h, hostTriggers(h, byID))
		services = append(services, Service{
			ID:          h.HostID,
			Name:        h.DisplayName(),
			Description: "Host: " + h.Host,
			Status:      status,
			LastCheck:   fetchedAt,
			Uptime:      UptimeFor(status),
			HostID:      h.HostID,
		})
	}
	return services
}

// hostTriggers 只保留 ID 出現在主機內嵌列表中的觸發器
func hostTriggers(h Host, byID map[string]Trigger) []Trigger {
	if len(h.Triggers) == 0 {
		return nil
	}
	out := make([]Trigger, 0, len(h.Triggers))
	for _, ref := range h.Triggers {
		if t, ok := byID[ref.TriggerID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// DeriveStatus 狀態判定，先匹配者優先:
// 維護 > 高優先級問題 (離線) > 任意問題 (警告) > 運行中
func DeriveStatus(h Host, triggers []Trigger) Status {
	if h.Status == HostStatusUnmonitored {
		return StatusMaintenance
	}

	problem := false
	for _, t := range triggers {
		if t.Value != TriggerValueProblem {
			continue
		}
		if parsePriority(t.Priority) >= HighSeverityThreshold {
			return StatusOffline
		}
		problem = true
	}

	if problem {
		return StatusWarning
	}
	return StatusOnline
}

func parsePriority(p string) int {
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0
	}
	return n
}
