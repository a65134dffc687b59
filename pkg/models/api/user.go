package api

import "time"

type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name,omitempty"`
	Role        string     `json:"role"`
	RoleDisplay string     `json:"role_display,omitempty"`
	IsActive    bool       `json:"is_active"`
	Phone       string     `json:"phone,omitempty"`
	Department  string     `json:"department,omitempty"`
	JobTitle    string     `json:"job_title,omitempty"`
	DateJoined  *time.Time `json:"date_joined,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// UserUpdate carries only the attributes being changed (PATCH semantics).
type UserUpdate struct {
	Email      *string `json:"email,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Role       *string `json:"role,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Department *string `json:"department,omitempty"`
	JobTitle   *string `json:"job_title,omitempty"`
}

type UserCreate struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Role       string `json:"role"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	JobTitle   string `json:"job_title,omitempty"`
}

type UserStats struct {
	TotalUsers      int `json:"total_users"`
	ActiveUsers     int `json:"active_users"`
	AdminUsers      int `json:"admin_users"`
	EmailRecipients int `json:"email_recipients"`
}

type Role struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
