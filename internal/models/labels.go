package models

// UnknownLabel is shown when a reference cannot be joined.
const UnknownLabel = "Неизвестно"

// Distribution work-type labels.
var distributionTypeLabels = map[WorkType]string{
	WorkCoursework: "Курсовая работа",
	WorkBachelor:   "Бакалаврская ВКР",
	WorkMaster:     "Магистерская диссертация",
	WorkOther:      "Другая работа",
}

// DistributionTypeOption is one entry of the work-type select.
type DistributionTypeOption struct {
	Value WorkType `json:"value"`
	Label string   `json:"label"`
}

// DistributionTypeOptions lists the work types in form order.
func DistributionTypeOptions() []DistributionTypeOption {
	order := []WorkType{WorkCoursework, WorkBachelor, WorkMaster, WorkOther}
	out := make([]DistributionTypeOption, 0, len(order))
	for _, t := range order {
		out = append(out, DistributionTypeOption{Value: t, Label: distributionTypeLabels[t]})
	}
	return out
}

// DistributionTypeLabel falls back to the raw code for unknown types.
func DistributionTypeLabel(t WorkType) string {
	if label, ok := distributionTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// DistributionStatusLabel renders the status badge.
func DistributionStatusLabel(s DistributionStatus) string {
	if s == DistributionActive {
		return "Активно"
	}
	return "Закрыто"
}

// DistributionActionLabel renders the toggle button.
func DistributionActionLabel(s DistributionStatus) string {
	if s == DistributionActive {
		return "Закрыть"
	}
	return "Активировать"
}

// Topic bank labels, in form order.
var (
	TopicTypeLabels   = []string{"Курсовая работа", "ВКР бакалавра", "ВКР магистра", "Другая работа"}
	TopicSourceLabels = []string{"Преподаватель", "Студент", "Работодатель", "Другой источник"}
)

var topicTypeByLabel = map[string]WorkType{
	"Курсовая работа": WorkCoursework,
	"ВКР бакалавра":   WorkBachelor,
	"ВКР магистра":    WorkMaster,
	"Другая работа":   WorkOther,
}

var topicSourceByLabel = map[string]TopicSource{
	"Преподаватель":   SourceTeacher,
	"Студент":         SourceStudent,
	"Работодатель":    SourceEmployer,
	"Другой источник": SourceOther,
}

var topicStatusLabels = map[TopicStatus]string{
	TopicAvailable: "Доступна",
	TopicReserved:  "Зарезервирована",
	TopicApproved:  "Утверждена",
	TopicCompleted: "Завершена",
}

// TopicTypeFromLabel maps a select label back to its code.
func TopicTypeFromLabel(label string) (WorkType, bool) {
	t, ok := topicTypeByLabel[label]
	return t, ok
}

// TopicSourceFromLabel maps a select label back to its code.
func TopicSourceFromLabel(label string) (TopicSource, bool) {
	s, ok := topicSourceByLabel[label]
	return s, ok
}

// TopicTypeLabel renders a topic type; unknown codes read as "other".
func TopicTypeLabel(t WorkType) string {
	switch t {
	case WorkCoursework:
		return "Курсовая работа"
	case WorkBachelor:
		return "ВКР бакалавра"
	case WorkMaster:
		return "ВКР магистра"
	default:
		return "Другая работа"
	}
}

// TopicSourceLabel renders a topic source; unknown codes read as "other".
func TopicSourceLabel(s TopicSource) string {
	switch s {
	case SourceTeacher:
		return "Преподаватель"
	case SourceStudent:
		return "Студент"
	case SourceEmployer:
		return "Работодатель"
	default:
		return "Другой источник"
	}
}

// TopicStatusLabel renders a topic status, keeping unknown codes verbatim.
func TopicStatusLabel(s TopicStatus) string {
	if label, ok := topicStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// TopicPriorityOption is one entry of the priority select.
type TopicPriorityOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TopicPriorityOptions lists priorities 0..3.
func TopicPriorityOptions() []TopicPriorityOption {
	return []TopicPriorityOption{
		{Value: "0", Label: "Нет приоритета"},
		{Value: "1", Label: "Низкий"},
		{Value: "2", Label: "Средний"},
		{Value: "3", Label: "Высокий"},
	}
}
