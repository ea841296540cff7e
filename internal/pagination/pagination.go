// Package pagination resolves raw page/size/sort parameters against the
// configured page-size policy and a whitelist of sortable columns.
package pagination

import (
	"math"
	"strconv"
	"strings"

	"github.com/training/practice/internal/apperror"
)

// Direction is a SQL sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts "asc"/"desc" in any case. Empty means ascending.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	default:
		return "", apperror.BadRequest("Invalid value '%s' for orders given; Has to be either 'desc' or 'asc' (case insensitive)", raw)
	}
}

// Policy bounds requested page sizes.
type Policy struct {
	DefaultSize int
	MaxSize     int
}

// Request is a resolved page request ready for the repository.
type Request struct {
	Page      int
	Size      int
	Sort      string // public field name, echoed back to clients
	Column    string // whitelisted SQL column
	Direction Direction
}

// Offset is the number of rows to skip.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Sortable maps public sort names to SQL columns. Both camelCase and
// snake_case spellings may be listed.
type Sortable map[string]string

// DefaultSort is used when the caller does not name a sort field.
const DefaultSort = "id"

// Resolve applies the policy:
//   - size nil falls back to DefaultSize
//   - size above MaxSize is clamped to MaxSize
//   - size below 1 or a negative page is rejected
//   - page*size must fit a 32-bit OFFSET
//   - direction and sort field must be valid
func (p Policy) Resolve(page int, size *int, sort, direction string, sortable Sortable) (Request, error) {
	if page < 0 {
		return Request{}, apperror.BadRequest("Page index must not be less than zero")
	}

	resolved := p.DefaultSize
	if size != nil {
		resolved = *size
		if resolved < 1 {
			return Request{}, apperror.BadRequest("Page size must not be less than one")
		}
		if p.MaxSize > 0 && resolved > p.MaxSize {
			resolved = p.MaxSize
		}
	}

	if page > math.MaxInt32/resolved {
		return Request{}, apperror.BadRequest("Page index %d is too large for page size %d", page, resolved)
	}

	dir, err := ParseDirection(direction)
	if err != nil {
		return Request{}, err
	}

	sort = strings.TrimSpace(sort)
	if sort == "" {
		sort = DefaultSort
	}
	column, ok := sortable[sort]
	if !ok {
		return Request{}, apperror.BadRequest("No property '%s' found for sorting", sort)
	}

	return Request{
		Page:      page,
		Size:      resolved,
		Sort:      sort,
		Column:    column,
		Direction: dir,
	}, nil
}

// ValidateLimit checks a search limit against [1, max].
func ValidateLimit(limit, max int) error {
	if limit < 1 || limit > max {
		return apperror.Validation([]apperror.FieldError{{
			Field:   "limit",
			Message: "must be between 1 and " + strconv.Itoa(max),
		}})
	}
	return nil
}
