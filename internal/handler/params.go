package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/training/practice/internal/apperror"
	"github.com/training/practice/internal/model"
)

const (
	defaultSearchLimit = 50
	defaultSort        = "id"
	defaultDirection   = "ASC"
)

// pageParams holds the raw listing parameters of a paged request.
type pageParams struct {
	Page      int
	Size      *int
	Sort      string
	Direction string
}

func parsePageParams(c *gin.Context) (pageParams, error) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return pageParams{}, err
	}

	var size *int
	if raw, ok := c.GetQuery("size"); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return pageParams{}, invalidParam("size", raw)
		}
		size = &n
	}

	return pageParams{
		Page:      page,
		Size:      size,
		Sort:      c.DefaultQuery("sort", defaultSort),
		Direction: c.DefaultQuery("direction", defaultDirection),
	}, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(name, raw)
	}
	return n, nil
}

func requireQuery(c *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return "", apperror.BadRequest("Required parameter '%s' is missing", name)
	}
	return v, nil
}

func parseStatus(raw string) (model.UserStatus, error) {
	status, err := model.ParseUserStatus(raw)
	if err != nil {
		return "", invalidParam("status", raw)
	}
	return status, nil
}

func invalidParam(name, raw string) error {
	return apperror.BadRequest("Invalid value '%s' for parameter '%s'", raw, name)
}

// confirmed reports whether the X-Confirm-Delete header is a true boolean.
func confirmed(c *gin.Context) bool {
	ok, err := strconv.ParseBool(strings.TrimSpace(c.GetHeader("X-Confirm-Delete")))
	return err == nil && ok
}
