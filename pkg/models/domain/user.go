package domain

import "time"

type User struct {
	ID          int64
	Username    string
	Email       string
	FirstName   string
	LastName    string
	FullName    string
	Role        string
	RoleDisplay string
	IsActive    bool
	Phone       string
	Department  string
	JobTitle    string
	DateJoined  *time.Time
	LastLogin   *time.Time
}

type UserStats struct {
	TotalUsers      int
	ActiveUsers     int
	AdminUsers      int
	EmailRecipients int
}

type Role struct {
	Value string
	Label string
}

type Session struct {
	AccessToken  string
	RefreshToken string
}

func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}
