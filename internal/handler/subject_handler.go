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

type SubjectService interface {
	GetByID(ctx context.Context, id string) (*model.SubjectDTO, error)
	ListPaged(ctx context.Context, page int, size *int, sort, direction string) (*model.Page[model.SubjectDTO], error)
	Search(ctx context.Context, q string, limit int) ([]model.SubjectDTO, error)
	ListByCode(ctx context.Context, code string) ([]model.SubjectDTO, error)
	Update(ctx context.Context, id string, req *model.UpdateSubjectRequest) (*model.SubjectDTO, error)
	Delete(ctx context.Context, id string) error
}

type SubjectHandler struct {
	subjectService SubjectService
}

func NewSubjectHandler(subjectService SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// GetByID godoc
// GET /api/subjects/:id
func (h *SubjectHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	subject, err := h.subjectService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if subject == nil {
		response.Error(c, apperror.NotFound("Subject not found with ID: %s", id))
		return
	}
	response.OK(c, subject)
}

// List godoc
// GET /api/subjects?page=&size=&sort=&direction=
func (h *SubjectHandler) List(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.subjectService.ListPaged(c.Request.Context(), p.Page, p.Size, p.Sort, p.Direction)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// Search godoc
// GET /api/subjects/search?q=&limit=
func (h *SubjectHandler) Search(c *gin.Context) {
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

	subjects, err := h.subjectService.Search(c.Request.Context(), q, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, subjects)
}

// ListByCode godoc
// GET /api/subjects/code/:code
func (h *SubjectHandler) ListByCode(c *gin.Context) {
	subjects, err := h.subjectService.ListByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, subjects)
}

// Update godoc
// PUT|PATCH /api/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	var req model.UpdateSubjectRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	subject, err := h.subjectService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Subject updated successfully", subject)
}

// Delete godoc
// DELETE /api/subjects/:id (requires X-Confirm-Delete: true)
func (h *SubjectHandler) Delete(c *gin.Context) {
	if !confirmed(c) {
		response.Fail(c, http.StatusBadRequest, response.GetMessage(response.ErrDeleteNotConfirmed))
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Subject deleted successfully", nil)
}
