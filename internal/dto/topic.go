package dto

import "github.com/noah-isme/topic-distribution-admin/internal/models"

// Texts of the topic bank screen.
const (
	TopicsTeachersLoadError = "Не удалось загрузить список преподавателей"
	TopicsLoadError         = "Не удалось загрузить список тем"
	TopicCreatedText        = "Тема успешно добавлена!"
	TopicCreatePrefix       = "Ошибка при добавлении темы: "
	TopicCreateFallback     = "Ошибка при добавлении темы"
	SupervisorUnassigned    = "Не назначен"
)

// TopicRow is a topic in display form.
type TopicRow struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Source      string `json:"source"`
	Supervisor  string `json:"supervisor"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// NewTopicRow translates a remote topic for display.
func NewTopicRow(t models.Topic) TopicRow {
	supervisor := t.SupervisorName
	if supervisor == "" {
		supervisor = SupervisorUnassigned
	}
	return TopicRow{
		ID:          t.ID,
		Title:       t.Title,
		Type:        models.TopicTypeLabel(t.Type),
		Source:      models.TopicSourceLabel(t.Source),
		Supervisor:  supervisor,
		Status:      models.TopicStatusLabel(t.Status),
		Description: t.Description,
		Priority:    t.Priority,
	}
}

// Notice is a one-shot message shown after a submit.
type Notice struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Notice kinds.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// TopicBankView is the full state of the topic bank screen.
type TopicBankView struct {
	ScreenID        string                       `json:"screenId"`
	Loaded          bool                         `json:"loaded"`
	Error           string                       `json:"error,omitempty"`
	Rows            []TopicRow                   `json:"rows"`
	Draft           models.TopicDraft            `json:"draft"`
	FieldErrors     map[string]string            `json:"fieldErrors,omitempty"`
	Notice          *Notice                      `json:"notice,omitempty"`
	TypeOptions     []string                     `json:"typeOptions"`
	SourceOptions   []string                     `json:"sourceOptions"`
	PriorityOptions []models.TopicPriorityOption `json:"priorityOptions"`
	TeacherOptions  []Option                     `json:"teacherOptions"`
}
