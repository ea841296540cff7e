package model

import "time"

// Subject represents a course owned by a user. The owner is never serialized.
type Subject struct {
	ID          string
	Name        string
	Description *string
	Code        string
	UserID      *string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SubjectDTO is the canonical subject representation returned by the API.
type SubjectDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateSubjectRequest is the payload for attaching a new subject to a user.
type CreateSubjectRequest struct {
	Name        string  `json:"name" binding:"required,notblank,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=50"`
	Code        string  `json:"code" binding:"required,notblank,len=3"`
}

// UpdateSubjectRequest is a sparse update. Nil fields are left untouched.
type UpdateSubjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=50"`
	Code        *string `json:"code" binding:"omitempty,notblank,len=3"`
}
