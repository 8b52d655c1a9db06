package dto

import "fmt"

// StatCard is one number on the main page.
type StatCard struct {
	Title string `json:"title"`
	Value int    `json:"value"`
}

// DashboardStats counts the reference collections.
type DashboardStats struct {
	TotalTopics     int `json:"totalTopics"`
	AvailableTopics int `json:"availableTopics"`
	Students        int `json:"students"`
	Teachers        int `json:"teachers"`
}

// Cards renders the stats in display order.
func (s DashboardStats) Cards() []StatCard {
	return []StatCard{
		{Title: "Всего тем", Value: s.TotalTopics},
		{Title: "Доступных тем", Value: s.AvailableTopics},
		{Title: "Студентов", Value: s.Students},
		{Title: "Преподавателей", Value: s.Teachers},
	}
}

// DashboardView is the main page.
type DashboardView struct {
	ScreenID string     `json:"screenId"`
	Greeting string     `json:"greeting"`
	Stats    []StatCard `json:"stats"`
	Partial  bool       `json:"partial,omitempty"`
}

// Greeting welcomes the operator by full name.
func Greeting(fullName string) string {
	if fullName == "" {
		fullName = "пользователь"
	}
	return fmt.Sprintf("Добро пожаловать, %s!", fullName)
}

// NavItem is one entry of the side navigation.
type NavItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// NavView is the navigation shell.
type NavView struct {
	Items       []NavItem `json:"items"`
	Active      string    `json:"active,omitempty"`
	LogoutLabel string    `json:"logoutLabel"`
}
