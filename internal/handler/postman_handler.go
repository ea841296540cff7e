package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/training/practice/internal/client"
	"github.com/training/practice/internal/model"
	"github.com/training/practice/internal/response"
	"github.com/training/practice/internal/validator"
)

type PostmanService interface {
	ListUsers(ctx context.Context) ([]model.PostmanUser, error)
	GetUser(ctx context.Context, id model.PostmanID) (*model.PostmanUser, error)
	ListUsersByRole(ctx context.Context, role string) ([]model.PostmanUser, error)
	CreateUser(ctx context.Context, req *model.PostmanUserRequest) (*model.PostmanUser, error)
	UpdateUser(ctx context.Context, id model.PostmanID, req *model.PostmanUserRequest) (*model.PostmanUser, error)
	PatchUser(ctx context.Context, id model.PostmanID, req *model.PostmanUserRequest) (*model.PostmanUser, error)
	DeleteUser(ctx context.Context, id model.PostmanID) error
	GetUserPermissions(ctx context.Context, id model.PostmanID) ([]string, error)
	AssignRole(ctx context.Context, id model.PostmanID, role string) (*model.PostmanUser, error)
}

// PostmanHandler exposes the remote user API under /api/external/postman.
type PostmanHandler struct {
	postmanService PostmanService
}

func NewPostmanHandler(postmanService PostmanService) *PostmanHandler {
	return &PostmanHandler{postmanService: postmanService}
}

// ctx forwards the inbound correlation id to the upstream call.
func (h *PostmanHandler) ctx(c *gin.Context) context.Context {
	return client.WithRequestID(c.Request.Context(), response.RequestID(c))
}

func remoteID(c *gin.Context) (model.PostmanID, error) {
	raw := c.Param("id")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidParam("id", raw)
	}
	return model.PostmanID(n), nil
}

// ListUsers godoc
// GET /api/external/postman/users
func (h *PostmanHandler) ListUsers(c *gin.Context) {
	users, err := h.postmanService.ListUsers(h.ctx(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Users fetched successfully", users)
}

// GetUser godoc
// GET /api/external/postman/users/:id
func (h *PostmanHandler) GetUser(c *gin.Context) {
	id, err := remoteID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.postmanService.GetUser(h.ctx(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User fetched successfully", user)
}

// ListUsersByRole godoc
// GET /api/external/postman/users/by-role?role=
func (h *PostmanHandler) ListUsersByRole(c *gin.Context) {
	role, err := requireQuery(c, "role")
	if err != nil {
		response.Error(c, err)
		return
	}
	users, err := h.postmanService.ListUsersByRole(h.ctx(c), role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Users by role fetched successfully", users)
}

// CreateUser godoc
// POST /api/external/postman/users
func (h *PostmanHandler) CreateUser(c *gin.Context) {
	var req model.PostmanUserRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.postmanService.CreateUser(h.ctx(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User created successfully", user)
}

// UpdateUser godoc
// PUT /api/external/postman/users/:id
func (h *PostmanHandler) UpdateUser(c *gin.Context) {
	id, err := remoteID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req model.PostmanUserRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.postmanService.UpdateUser(h.ctx(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User updated successfully", user)
}

// PatchUser godoc
// PATCH /api/external/postman/users/:id
func (h *PostmanHandler) PatchUser(c *gin.Context) {
	id, err := remoteID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req model.PostmanUserRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.postmanService.PatchUser(h.ctx(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User partially updated successfully", user)
}

// DeleteUser godoc
// DELETE /api/external/postman/users/:id
func (h *PostmanHandler) DeleteUser(c *gin.Context) {
	id, err := remoteID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.postmanService.DeleteUser(h.ctx(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted successfully", nil)
}

// GetUserPermissions godoc
// GET /api/external/postman/users/:id/permissions
func (h *PostmanHandler) GetUserPermissions(c *gin.Context) {
	id, err := remoteID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	perms, err := h.postmanService.GetUserPermissions(h.ctx(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User permissions fetched successfully", perms)
}

// AssignRole godoc
// POST /api/external/postman/users/:id/roles?role=
func (h *PostmanHandler) AssignRole(c *gin.Context) {
	id, err := remoteID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	role, err := requireQuery(c, "role")
	if err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.postmanService.AssignRole(h.ctx(c), id, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Role assigned successfully", user)
}
