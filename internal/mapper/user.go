// Package mapper converts between persisted entities and transport DTOs.
//
// All overlay functions follow one rule: a nil (absent) source field never
// overwrites the target.
package mapper

import (
	"time"

	"github.com/google/uuid"

	"github.com/training/practice/internal/model"
)

// ToUserDTO converts a user entity, including its subjects in order.
func ToUserDTO(u *model.User) model.UserDTO {
	return model.UserDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Department: u.Department,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
		Subjects:   ToSubjectDTOs(u.Subjects),
	}
}

// ToUserDTOs converts a slice of users. A nil input yields an empty slice.
func ToUserDTOs(users []model.User) []model.UserDTO {
	out := make([]model.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, ToUserDTO(&users[i]))
	}
	return out
}

// ToUserV2DTO is the reduced view that hides contact details.
func ToUserV2DTO(u *model.User) model.UserV2DTO {
	return model.UserV2DTO{
		ID:       u.ID,
		Name:     u.Name,
		Subjects: ToSubjectDTOs(u.Subjects),
	}
}

func ToSubjectDTO(s *model.Subject) model.SubjectDTO {
	return model.SubjectDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Code:        s.Code,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func ToSubjectDTOs(subjects []model.Subject) []model.SubjectDTO {
	out := make([]model.SubjectDTO, 0, len(subjects))
	for i := range subjects {
		out = append(out, ToSubjectDTO(&subjects[i]))
	}
	return out
}

// NewUserFromCreate builds a new user entity with a fresh id.
// Status defaults to ACTIVE.
func NewUserFromCreate(req *model.CreateUserRequest, now time.Time) *model.User {
	status := model.UserStatusActive
	if req.Status != nil && *req.Status != "" {
		status = *req.Status
	}
	return &model.User{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
		Subjects:   []model.Subject{},
	}
}

// NewSubjectFromCreate builds a subject owned by userID at the given position.
func NewSubjectFromCreate(req *model.CreateSubjectRequest, userID string, position int, now time.Time) *model.Subject {
	owner := userID
	return &model.Subject{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Code:        req.Code,
		UserID:      &owner,
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyUserUpdate overlays the present fields of req onto u and reports
// whether anything was set.
func ApplyUserUpdate(u *model.User, req *model.UpdateUserRequest) bool {
	changed := false
	if req.Name != nil {
		u.Name = *req.Name
		changed = true
	}
	if req.Email != nil {
		u.Email = *req.Email
		changed = true
	}
	if req.Phone != nil {
		phone := *req.Phone
		u.Phone = &phone
		changed = true
	}
	if req.Department != nil {
		dept := *req.Department
		u.Department = &dept
		changed = true
	}
	if req.Status != nil && *req.Status != "" {
		u.Status = *req.Status
		changed = true
	}
	return changed
}

// ApplySubjectUpdate overlays the present fields of req onto s.
func ApplySubjectUpdate(s *model.Subject, req *model.UpdateSubjectRequest) bool {
	changed := false
	if req.Name != nil {
		s.Name = *req.Name
		changed = true
	}
	if req.Description != nil {
		desc := *req.Description
		s.Description = &desc
		changed = true
	}
	if req.Code != nil {
		s.Code = *req.Code
		changed = true
	}
	return changed
}
