package state

import (
	"fmt"
	"strings"

	"github.com/Yat-Muk/zstatus/internal/domain/service"
	"github.com/Yat-Muk/zstatus/internal/pkg/inputvalidator"
)

// FormField 表單字段
type FormField int

const (
	FieldName FormField = iota
	FieldDescription
	FieldStatus
	FieldUptime
	fieldCount
)

// Label 字段名稱
func (f FormField) Label() string {
	switch f {
	case FieldName:
		return "名稱"
	case FieldDescription:
		return "描述"
	case FieldStatus:
		return "狀態"
	case FieldUptime:
		return "可用率"
	default:
		return ""
	}
}

// FormState 服務添加/編輯表單
type FormState struct {
	Editing  bool
	EditID   string
	Step     FormField
	Original service.Service
	Draft    service.Service

	uptimeSet bool
}

func NewFormState() *FormState {
	return &FormState{}
}

// StartAdd 開始添加服務
func (s *FormState) StartAdd() {
	*s = FormState{
		Draft: service.Service{Status: service.StatusOnline},
	}
}

// StartEdit 開始編輯已有服務
func (s *FormState) StartEdit(svc service.Service) {
	*s = FormState{
		Editing:  true,
		EditID:   svc.ID,
		Original: svc.Clone(),
		Draft:    svc.Clone(),
	}
}

// Current 當前字段的現值
func (s *FormState) Current() string {
	if s.Step == FieldStatus {
		return string(s.Draft.Status)
	}
	return s.valueOf(s.Step)
}

// Submit 提交當前字段並前進，返回表單是否已填完。
// 空輸入保留現值；添加時名稱不能為空。
func (s *FormState) Submit(input string) (done bool, err error) {
	input = strings.TrimSpace(inputvalidator.SanitizeInput(input))

	switch s.Step {
	case FieldName:
		if err := inputvalidator.ValidateLength(input, inputvalidator.MaxNameLength, "名稱"); err != nil {
			return false, err
		}
		if input == "" && s.Draft.Name == "" {
			return false, fmt.Errorf("名稱不能為空")
		}
		if input != "" {
			s.Draft.Name = input
		}
	case FieldDescription:
		if err := inputvalidator.ValidateLength(input, inputvalidator.MaxDescriptionLength, "描述"); err != nil {
			return false, err
		}
		if input != "" {
			s.Draft.Description = input
		}
	case FieldStatus:
		if input != "" {
			st, err := service.ParseStatus(strings.ToLower(input))
			if err != nil {
				return false, fmt.Errorf("無效狀態，可選: online, offline, warning, maintenance")
			}
			s.Draft.Status = st
		}
	case FieldUptime:
		if input != "" {
			up, err := service.NormalizeUptime(input)
			if err != nil {
				return false, err
			}
			s.Draft.Uptime = up
			s.uptimeSet = true
		}
	}

	s.Step++
	return s.Step >= fieldCount, nil
}

// Patch 編輯模式下生成的補丁，只包含有變化的字段
func (s *FormState) Patch() service.Patch {
	var p service.Patch
	if s.Draft.Name != s.Original.Name {
		v := s.Draft.Name
		p.Name = &v
	}
	if s.Draft.Description != s.Original.Description {
		v := s.Draft.Description
		p.Description = &v
	}
	if s.Draft.Status != s.Original.Status {
		v := s.Draft.Status
		p.Status = &v
	}
	if s.Draft.Uptime != s.Original.Uptime {
		v := s.Draft.Uptime
		p.Uptime = &v
	}
	return p
}

// NewService 添加模式下生成的服務草稿，未填可用率時由協調器按狀態補全
func (s *FormState) NewService() service.Service {
	out := s.Draft.Clone()
	if !s.uptimeSet {
		out.Uptime = ""
	}
	return out
}
