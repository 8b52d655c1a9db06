package models

// UserRole is chosen at registration.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// User is the account object the remote API returns on login. It is kept
// as the session record.
type User struct {
	ID       int64    `json:"id"`
	Login    string   `json:"login"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}
