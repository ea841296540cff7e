package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/training/practice/internal/apperror"
	"github.com/training/practice/internal/model"
	"github.com/training/practice/internal/response"
	"github.com/training/practice/internal/validator"
)

// UserService is the user use-case surface the handlers depend on.
type UserService interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.UserDTO, error)
	GetByID(ctx context.Context, id string) (*model.UserDTO, error)
	GetByIDV2(ctx context.Context, id string) (*model.UserV2DTO, error)
	ListPaged(ctx context.Context, page int, size *int, sort, direction string) (*model.Page[model.UserDTO], error)
	ListByDepartment(ctx context.Context, department string) ([]model.UserDTO, error)
	ListByStatus(ctx context.Context, status model.UserStatus) ([]model.UserDTO, error)
	ListByDepartmentAndStatus(ctx context.Context, department string, status model.UserStatus) ([]model.UserDTO, error)
	Search(ctx context.Context, q string, limit int) ([]model.UserDTO, error)
	Update(ctx context.Context, id string, req *model.UpdateUserRequest) (*model.UserDTO, error)
	UpdateStatus(ctx context.Context, id string, status model.UserStatus) (*model.UserDTO, error)
	Delete(ctx context.Context, id string) error
	AddSubject(ctx context.Context, userID string, req *model.CreateSubjectRequest) (*model.UserDTO, error)
	CountByStatus(ctx context.Context, status model.UserStatus) (int64, error)
}

type UserHandler struct {
	userService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create godoc
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "User created successfully", user)
}

// GetByID godoc
// GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if user == nil {
		response.Error(c, apperror.NotFound("User not found with ID: %s", id))
		return
	}
	response.OK(c, user)
}

// GetByIDV2 godoc
// GET /api/users/v2/:id
func (h *UserHandler) GetByIDV2(c *gin.Context) {
	id := c.Param("id")
	user, err := h.userService.GetByIDV2(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if user == nil {
		response.Error(c, apperror.NotFound("User not found with ID: %s", id))
		return
	}
	response.OK(c, user)
}

// List godoc
// GET /api/users?page=&size=&sort=&direction=
func (h *UserHandler) List(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.userService.ListPaged(c.Request.Context(), p.Page, p.Size, p.Sort, p.Direction)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// ListByDepartment godoc
// GET /api/users/department?dept=
func (h *UserHandler) ListByDepartment(c *gin.Context) {
	dept, err := requireQuery(c, "dept")
	if err != nil {
		response.Error(c, err)
		return
	}

	users, err := h.userService.ListByDepartment(c.Request.Context(), dept)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// ListByStatus godoc
// GET /api/users/status/:status
func (h *UserHandler) ListByStatus(c *gin.Context) {
	status, err := parseStatus(c.Param("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	users, err := h.userService.ListByStatus(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// ListByDepartmentAndStatus godoc
// GET /api/users/department/:department/status/:status
func (h *UserHandler) ListByDepartmentAndStatus(c *gin.Context) {
	status, err := parseStatus(c.Param("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	users, err := h.userService.ListByDepartmentAndStatus(c.Request.Context(), c.Param("department"), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// Search godoc
// GET /api/users/search?q=&limit=
func (h *UserHandler) Search(c *gin.Context) {
	q, err := requireQuery(c, "q")
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, err := queryInt(c, "limit", defaultSearchLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	users, err := h.userService.Search(c.Request.Context(), q, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// Update godoc
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req model.UpdateUserRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User updated successfully", user)
}

// UpdateStatus godoc
// PATCH /api/users/:id/status?status=
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	raw, err := requireQuery(c, "status")
	if err != nil {
		response.Error(c, err)
		return
	}
	status, err := parseStatus(raw)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.userService.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User status updated successfully", user)
}

// AddSubject godoc
// PATCH /api/users/:id/subject
func (h *UserHandler) AddSubject(c *gin.Context) {
	var req model.CreateSubjectRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.userService.AddSubject(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Subject added to user successfully", user)
}

// Delete godoc
// DELETE /api/users/:id (requires X-Confirm-Delete: true)
func (h *UserHandler) Delete(c *gin.Context) {
	if !confirmed(c) {
		response.Fail(c, http.StatusBadRequest, response.GetMessage(response.ErrDeleteNotConfirmed))
		return
	}

	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted successfully", nil)
}

// CountByStatus godoc
// GET /api/users/stats/count?status=
func (h *UserHandler) CountByStatus(c *gin.Context) {
	raw, err := requireQuery(c, "status")
	if err != nil {
		response.Error(c, err)
		return
	}
	status, err := parseStatus(raw)
	if err != nil {
		response.Error(c, err)
		return
	}

	n, err := h.userService.CountByStatus(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User count retrieved successfully", n)
}
