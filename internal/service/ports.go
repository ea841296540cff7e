package service

import (
	"context"
	"time"

	"github.com/training/practice/internal/model"
	"github.com/training/practice/internal/pagination"
	"github.com/training/practice/internal/repository"
)

// Transactor scopes a unit of work. Implemented by repository.TxManager.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserStore is the persistence surface UserService needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ListPaged(ctx context.Context, page pagination.Request) ([]model.User, int64, error)
	List(ctx context.Context, filter repository.UserFilter) ([]model.User, error)
	SearchByName(ctx context.Context, q string, limit int) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status model.UserStatus) (int64, error)
	AddSubject(ctx context.Context, userID string, s *model.Subject) error
}

// SubjectStore is the persistence surface SubjectService needs.
type SubjectStore interface {
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	ListPaged(ctx context.Context, page pagination.Request) ([]model.Subject, int64, error)
	SearchByName(ctx context.Context, q string, limit int) ([]model.Subject, error)
	ListByCode(ctx context.Context, code string) ([]model.Subject, error)
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, id string) error
}

// PostmanAPI is the remote user-management API.
type PostmanAPI interface {
	ListUsers(ctx context.Context) ([]model.PostmanWireUser, error)
	GetUser(ctx context.Context, id model.PostmanID) (*model.PostmanWireUser, error)
	ListUsersByRole(ctx context.Context, role string) ([]model.PostmanWireUser, error)
	CreateUser(ctx context.Context, body model.PostmanWireUser) (*model.PostmanWireUser, error)
	UpdateUser(ctx context.Context, id model.PostmanID, body model.PostmanWireUser) (*model.PostmanWireUser, error)
	PatchUser(ctx context.Context, id model.PostmanID, body model.PostmanWireUser) (*model.PostmanWireUser, error)
	DeleteUser(ctx context.Context, id model.PostmanID) error
	GetUserPermissions(ctx context.Context, id model.PostmanID) ([]string, error)
	AssignRole(ctx context.Context, id model.PostmanID, role string) (*model.PostmanWireUser, error)
}

// MaxSearchLimit bounds every name search.
const MaxSearchLimit = 100

// now is truncated to the storage precision so returned DTOs match what a
// later read returns.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
