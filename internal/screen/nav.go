package screen

import "github.com/noah-isme/topic-distribution-admin/internal/dto"

// LogoutLabel is the caption of the logout control.
const LogoutLabel = "Выход с аккаунта"

var navOrder = []struct {
	kind  Kind
	label string
}{
	{KindMain, "Главная"},
	{KindTopics, "Банк тем"},
	{KindStudents, "Студенты"},
	{KindTeachers, "Преподаватели"},
	{KindDistribution, "Распределение"},
}

// SectionPath is the console route of a screen kind.
func SectionPath(kind Kind) string {
	return "/dashboard/" + string(kind)
}

// Nav builds the side navigation with active highlighted.
func Nav(active Kind) dto.NavView {
	items := make([]dto.NavItem, 0, len(navOrder))
	for _, n := range navOrder {
		items = append(items, dto.NavItem{Path: SectionPath(n.kind), Label: n.label})
	}
	view := dto.NavView{Items: items, LogoutLabel: LogoutLabel}
	if active != "" {
		view.Active = SectionPath(active)
	}
	return view
}
