package mapper

import (
	"maps"
	"strings"

	"github.com/training/practice/internal/model"
)

const statusPrefix = "User with "

// ToInternal renames wire fields to the internal schema and decorates the
// status. It always returns a new value; the wire record is not modified, so
// the decoration can only ever be applied once per upstream response.
func ToInternal(w model.PostmanWireUser) model.PostmanUser {
	return model.PostmanUser{
		ID:                w.ID,
		UserPostmanName:   w.Name,
		UserPostmanEmail:  w.Email,
		UserPostmanStatus: decorateStatus(w.Status),
		UserPostmanRoles:  maps.Clone(w.Roles),
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func ToInternals(ws []model.PostmanWireUser) []model.PostmanUser {
	out := make([]model.PostmanUser, 0, len(ws))
	for _, w := range ws {
		out = append(out, ToInternal(w))
	}
	return out
}

// ToWire is the inverse rename. The status is copied verbatim: decoration
// is one-way.
func ToWire(u model.PostmanUser) model.PostmanWireUser {
	return model.PostmanWireUser{
		ID:        u.ID,
		Name:      u.UserPostmanName,
		Email:     u.UserPostmanEmail,
		Status:    u.UserPostmanStatus,
		Roles:     maps.Clone(u.UserPostmanRoles),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToWireRequest converts an inbound request to the upstream payload.
// Empty fields are dropped from the JSON body by the wire struct's omitempty tags.
func ToWireRequest(req *model.PostmanUserRequest) model.PostmanWireUser {
	return model.PostmanWireUser{
		Name:   strings.TrimSpace(req.UserPostmanName),
		Email:  strings.TrimSpace(req.UserPostmanEmail),
		Status: strings.TrimSpace(req.UserPostmanStatus),
		Roles:  maps.Clone(req.UserPostmanRoles),
	}
}

func decorateStatus(status string) string {
	if strings.TrimSpace(status) == "" {
		return status
	}
	return statusPrefix + strings.ToUpper(status)
}
