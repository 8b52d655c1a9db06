package models

// TopicSource tells who proposed a topic.
type TopicSource string

const (
	SourceTeacher  TopicSource = "teacher"
	SourceStudent  TopicSource = "student"
	SourceEmployer TopicSource = "employer"
	SourceOther    TopicSource = "other"
)

// TopicStatus is the lifecycle of a topic in the bank.
type TopicStatus string

const (
	TopicAvailable TopicStatus = "available"
	TopicReserved  TopicStatus = "reserved"
	TopicApproved  TopicStatus = "approved"
	TopicCompleted TopicStatus = "completed"
)

// Topic is a thesis or coursework subject from the topic bank.
type Topic struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Type           WorkType    `json:"type"`
	Source         TopicSource `json:"source"`
	Status         TopicStatus `json:"status"`
	SupervisorID   *int64      `json:"supervisor_id,omitempty"`
	SupervisorName string      `json:"supervisor_name,omitempty"`
	Description    string      `json:"description"`
	Priority       int         `json:"priority"`
}

// TopicDraft is the creation form; type and source hold display labels.
type TopicDraft struct {
	Title       string `json:"title" validate:"notblank"`
	Type        string `json:"type" validate:"worktype_label"`
	Source      string `json:"source" validate:"source_label"`
	Supervisor  string `json:"supervisor"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"omitempty,oneof=0 1 2 3"`
}

// NewTopicDraft returns the form defaults.
func NewTopicDraft() TopicDraft {
	return TopicDraft{Priority: "0"}
}

// CreateTopicRequest is the body of POST /user/themes.
type CreateTopicRequest struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Type         WorkType    `json:"type"`
	Source       TopicSource `json:"source"`
	SupervisorID *int64      `json:"supervisor_id"`
	Priority     int         `json:"priority"`
}

// CreateTopicResponse wraps the created topic.
type CreateTopicResponse struct {
	Theme Topic `json:"theme"`
}
