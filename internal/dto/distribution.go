package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
)

// Option is one entry of a select control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DistributionRow is one rendered line of the distribution table.
type DistributionRow struct {
	ID          int64                     `json:"id"`
	Discipline  string                    `json:"discipline"`
	GroupName   string                    `json:"groupName"`
	TeacherName string                    `json:"teacherName"`
	Type        models.WorkType           `json:"type"`
	TypeLabel   string                    `json:"typeLabel"`
	Deadline    string                    `json:"deadline"`
	Status      models.DistributionStatus `json:"status"`
	StatusLabel string                    `json:"statusLabel"`
	ActionLabel string                    `json:"actionLabel"`
	Toggling    bool                      `json:"toggling,omitempty"`
}

// DistributionManagerView is the full state of the distribution screen.
type DistributionManagerView struct {
	ScreenID        string                          `json:"screenId"`
	Loaded          bool                            `json:"loaded"`
	Error           string                          `json:"error,omitempty"`
	Summary         string                          `json:"summary,omitempty"`
	Rows            []DistributionRow               `json:"rows"`
	EmptyMessage    string                          `json:"emptyMessage,omitempty"`
	ShowForm        bool                            `json:"showForm"`
	FormToggleLabel string                          `json:"formToggleLabel"`
	Draft           models.DistributionDraft        `json:"draft"`
	FieldErrors     map[string]string               `json:"fieldErrors,omitempty"`
	Banner          string                          `json:"banner,omitempty"`
	TeacherOptions  []Option                        `json:"teacherOptions"`
	TypeOptions     []models.DistributionTypeOption `json:"typeOptions"`
}

// Texts of the distribution screen.
const (
	DistributionsEmpty       = "Распределения не найдены"
	DistributionFormOpen     = "Создать распределение"
	DistributionFormCancel   = "Отмена"
	DistributionCreatedText  = "Распределение успешно создано!"
	DistributionLoadError    = "Ошибка при загрузке данных"
	DistributionCreatePrefix = "Ошибка при создании распределения: "
	DistributionToggleError  = "Ошибка при изменении статуса распределения"
)

// DistributionSummary renders the counts line.
func DistributionSummary(distributions, teachers, topics int) string {
	return fmt.Sprintf("Всего распределений: %d | Преподавателей: %d | Тем: %d", distributions, teachers, topics)
}

// TeacherNames indexes teacher display names by id.
func TeacherNames(teachers []models.Teacher) map[int64]string {
	out := make(map[int64]string, len(teachers))
	for _, t := range teachers {
		out[t.ID] = t.Name
	}
	return out
}

// TeacherOptions renders the teacher select.
func TeacherOptions(teachers []models.Teacher) []Option {
	out := make([]Option, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, Option{Value: strconv.FormatInt(t.ID, 10), Label: t.Name})
	}
	return out
}

// NewDistributionRow joins a distribution with the teacher snapshot.
func NewDistributionRow(d models.Distribution, teacherNames map[int64]string) DistributionRow {
	name, ok := teacherNames[d.TeacherID]
	if !ok {
		name = models.UnknownLabel
	}
	return DistributionRow{
		ID:          d.ID,
		Discipline:  d.Discipline,
		GroupName:   d.GroupName,
		TeacherName: name,
		Type:        d.Type,
		TypeLabel:   models.DistributionTypeLabel(d.Type),
		Deadline:    FormatDeadline(d.Deadline),
		Status:      d.Status,
		StatusLabel: models.DistributionStatusLabel(d.Status),
		ActionLabel: models.DistributionActionLabel(d.Status),
	}
}

var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// InvalidDateLabel is shown for deadlines that do not parse.
const InvalidDateLabel = "Invalid Date"

// FormatDeadline renders a deadline as a Russian long date in UTC,
// e.g. "2 января 2025 г.".
func FormatDeadline(raw string) string {
	t, ok := ParseDeadline(raw)
	if !ok {
		return InvalidDateLabel
	}
	return fmt.Sprintf("%d %s %d г.", t.Day(), ruMonths[t.Month()-1], t.Year())
}

// ParseDeadline accepts a calendar date or an RFC 3339 timestamp.
func ParseDeadline(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
