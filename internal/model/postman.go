package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PostmanID is the numeric id used by the third-party user API. The upstream
// sometimes encodes it as a JSON string, so both forms are accepted.
type PostmanID int64

func (id *PostmanID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*id = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("postman id %q: %w", s, err)
		}
		*id = PostmanID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = PostmanID(n)
	return nil
}

// PostmanWireUser is the third-party wire schema.
type PostmanWireUser struct {
	ID        PostmanID       `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Email     string          `json:"email,omitempty"`
	Status    string          `json:"status,omitempty"`
	Roles     map[string]bool `json:"roles,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
}

// PostmanUser is the internal schema served by /api/external/postman.
type PostmanUser struct {
	ID                PostmanID       `json:"id"`
	UserPostmanName   string          `json:"userPostmanName"`
	UserPostmanEmail  string          `json:"userPostmanEmail"`
	UserPostmanStatus string          `json:"userPostmanStatus"`
	UserPostmanRoles  map[string]bool `json:"userPostmanRoles"`
	CreatedAt         string          `json:"createdAt,omitempty"`
	UpdatedAt         string          `json:"updatedAt,omitempty"`
}

// PostmanUserRequest is the inbound payload for create and update calls
// against the third-party API. Empty fields are not sent upstream.
type PostmanUserRequest struct {
	UserPostmanName   string          `json:"userPostmanName" binding:"omitempty,max=100"`
	UserPostmanEmail  string          `json:"userPostmanEmail" binding:"omitempty,email"`
	UserPostmanStatus string          `json:"userPostmanStatus" binding:"omitempty,max=50"`
	UserPostmanRoles  map[string]bool `json:"userPostmanRoles"`
}
