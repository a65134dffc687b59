package adapters

import (
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
)

func MapAPIUserToDomain(u api.User) domain.User {
	return domain.User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName,
		Role:        u.Role,
		RoleDisplay: u.RoleDisplay,
		IsActive:    u.IsActive,
		Phone:       u.Phone,
		Department:  u.Department,
		JobTitle:    u.JobTitle,
		DateJoined:  u.DateJoined,
		LastLogin:   u.LastLogin,
	}
}

func MapAPIUserStatsToDomain(s api.UserStats) domain.UserStats {
	return domain.UserStats{
		TotalUsers:      s.TotalUsers,
		ActiveUsers:     s.ActiveUsers,
		AdminUsers:      s.AdminUsers,
		EmailRecipients: s.EmailRecipients,
	}
}
