package model

import (
	"fmt"
	"strings"
	"time"
)

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusPending   UserStatus = "PENDING"
)

// AllUserStatuses lists every accepted status.
var AllUserStatuses = []UserStatus{
	UserStatusActive,
	UserStatusInactive,
	UserStatusSuspended,
	UserStatusPending,
}

// ParseUserStatus parses a status name case-insensitively.
func ParseUserStatus(raw string) (UserStatus, error) {
	candidate := UserStatus(strings.ToUpper(strings.TrimSpace(raw)))
	for _, s := range AllUserStatuses {
		if s == candidate {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown user status %q", raw)
}

// User is the persisted user row together with its owned subjects.
type User struct {
	ID         string
	Name       string
	Email      string
	Phone      *string
	Department *string
	Status     UserStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Subjects   []Subject
}

// UserDTO is the canonical user representation returned by the API.
type UserDTO struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      *string      `json:"phone"`
	Department *string      `json:"department"`
	Status     UserStatus   `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	Subjects   []SubjectDTO `json:"subjects"`
}

// UserV2DTO is the reduced view served by /api/users/v2; email is not exposed.
type UserV2DTO struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Subjects []SubjectDTO `json:"subjects"`
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Name       string      `json:"name" binding:"required,notblank,min=2,max=100"`
	Email      string      `json:"email" binding:"required,email,max=255"`
	Phone      *string     `json:"phone" binding:"omitempty,max=20"`
	Department *string     `json:"department" binding:"omitempty,max=100"`
	Status     *UserStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED PENDING"`
}

// UpdateUserRequest is a sparse update. Nil fields are left untouched.
type UpdateUserRequest struct {
	Name       *string     `json:"name" binding:"omitempty,notblank,min=2,max=100"`
	Email      *string     `json:"email" binding:"omitempty,email,max=255"`
	Phone      *string     `json:"phone" binding:"omitempty,max=20"`
	Department *string     `json:"department" binding:"omitempty,max=100"`
	Status     *UserStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED PENDING"`
}
