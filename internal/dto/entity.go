package dto

import (
	"fmt"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
)

// Texts of the entity list screens.
const (
	StudentsEmpty      = "Студенты не найдены"
	TeachersEmpty      = "Преподаватели не найдены"
	StudentsLoadError  = "Ошибка при загрузке данных студентов"
	TeachersLoadError  = "Ошибка при загрузке данных преподавателей"
	UpdateFailedPrefix = "Ошибка при обновлении данных: "
	StudentUpdatedText = "Данные студента успешно обновлены!"
	TeacherUpdatedText = "Данные преподавателя успешно обновлены!"
)

// StudentsSummary renders the students count line.
func StudentsSummary(n int) string {
	return fmt.Sprintf("Всего студентов: %d", n)
}

// TeachersSummary renders the teachers count line.
func TeachersSummary(n int) string {
	return fmt.Sprintf("Всего преподавателей: %d", n)
}

// StudentRow is one rendered student line.
type StudentRow struct {
	models.Student
	Editing bool `json:"editing,omitempty"`
}

// StudentsView is the full state of the students screen.
type StudentsView struct {
	ScreenID     string               `json:"screenId"`
	Loaded       bool                 `json:"loaded"`
	Error        string               `json:"error,omitempty"`
	Summary      string               `json:"summary,omitempty"`
	Rows         []StudentRow         `json:"rows"`
	EmptyMessage string               `json:"emptyMessage,omitempty"`
	EditingID    *int64               `json:"editingId,omitempty"`
	Draft        *models.StudentDraft `json:"draft,omitempty"`
	FieldErrors  map[string]string    `json:"fieldErrors,omitempty"`
	Banner       string               `json:"banner,omitempty"`
}

// TeacherRow is one rendered teacher line.
type TeacherRow struct {
	models.Teacher
	Editing bool `json:"editing,omitempty"`
}

// TeachersView is the full state of the teachers screen.
type TeachersView struct {
	ScreenID     string               `json:"screenId"`
	Loaded       bool                 `json:"loaded"`
	Error        string               `json:"error,omitempty"`
	Summary      string               `json:"summary,omitempty"`
	Rows         []TeacherRow         `json:"rows"`
	EmptyMessage string               `json:"emptyMessage,omitempty"`
	EditingID    *int64               `json:"editingId,omitempty"`
	Draft        *models.TeacherDraft `json:"draft,omitempty"`
	FieldErrors  map[string]string    `json:"fieldErrors,omitempty"`
	Banner       string               `json:"banner,omitempty"`
}
