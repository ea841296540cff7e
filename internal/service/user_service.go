package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/training/practice/internal/apperror"
	"github.com/training/practice/internal/cache"
	"github.com/training/practice/internal/mapper"
	"github.com/training/practice/internal/model"
	"github.com/training/practice/internal/pagination"
	"github.com/training/practice/internal/repository"
	"github.com/training/practice/internal/validator"
)

// UserService handles user business logic: email uniqueness, existence
// checks and the read-through cache.
type UserService struct {
	users  UserStore
	tx     Transactor
	cache  cache.UserCache
	policy pagination.Policy
	clock  func() time.Time
	log    zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, tx Transactor, userCache cache.UserCache, policy pagination.Policy, log zerolog.Logger) *UserService {
	if userCache == nil {
		userCache = cache.NoopUserCache{}
	}
	return &UserService{
		users:  users,
		tx:     tx,
		cache:  userCache,
		policy: policy,
		clock:  now,
		log:    log.With().Str("component", "user_service").Logger(),
	}
}

func userNotFound(id string) error {
	return apperror.NotFound("User not found with ID: %s", id)
}

func emailTaken(email string) error {
	return apperror.Conflict("Email already exists: %s", email)
}

// Create persists a new user. Status defaults to ACTIVE.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.UserDTO, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	var dto model.UserDTO
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if exists {
			return emailTaken(req.Email)
		}

		u := mapper.NewUserFromCreate(req, s.clock())
		if err := s.users.Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return emailTaken(req.Email)
			}
			return err
		}
		dto = mapper.ToUserDTO(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", dto.ID).Msg("User created")
	return &dto, nil
}

// GetByID returns nil, nil when the user does not exist.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.UserDTO, error) {
	if cached, err := s.cache.Get(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("User cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	u, err := s.load(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}

	dto := mapper.ToUserDTO(u)
	if err := s.cache.Set(ctx, &dto); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("User cache write failed")
	}
	return &dto, nil
}

// GetByIDV2 returns the reduced view, or nil, nil when absent.
func (s *UserService) GetByIDV2(ctx context.Context, id string) (*model.UserV2DTO, error) {
	u, err := s.load(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	dto := mapper.ToUserV2DTO(u)
	return &dto, nil
}

func (s *UserService) load(ctx context.Context, id string) (*model.User, error) {
	var u *model.User
	err := s.tx.WithReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.users.GetByID(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// ListPaged returns one page of users. A nil size uses the default page
// size and oversized pages are clamped.
func (s *UserService) ListPaged(ctx context.Context, page int, size *int, sort, direction string) (*model.Page[model.UserDTO], error) {
	req, err := s.policy.Resolve(page, size, sort, direction, repository.UserSortable)
	if err != nil {
		return nil, err
	}

	var (
		users []model.User
		total int64
	)
	err = s.tx.WithReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		users, total, err = s.users.ListPaged(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return model.NewPage(mapper.ToUserDTOs(users), req.Page, req.Size, total, req.Sort, string(req.Direction)), nil
}

func (s *UserService) ListByDepartment(ctx context.Context, department string) ([]model.UserDTO, error) {
	return s.list(ctx, repository.UserFilter{Department: &department})
}

func (s *UserService) ListByStatus(ctx context.Context, status model.UserStatus) ([]model.UserDTO, error) {
	return s.list(ctx, repository.UserFilter{Status: &status})
}

func (s *UserService) ListByDepartmentAndStatus(ctx context.Context, department string, status model.UserStatus) ([]model.UserDTO, error) {
	return s.list(ctx, repository.UserFilter{Department: &department, Status: &status})
}

func (s *UserService) list(ctx context.Context, filter repository.UserFilter) ([]model.UserDTO, error) {
	var users []model.User
	err := s.tx.WithReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.users.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapper.ToUserDTOs(users), nil
}

// Search matches names case-insensitively. limit must be in [1, 100].
func (s *UserService) Search(ctx context.Context, q string, limit int) ([]model.UserDTO, error) {
	if err := pagination.ValidateLimit(limit, MaxSearchLimit); err != nil {
		return nil, err
	}

	var users []model.User
	err := s.tx.WithReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.users.SearchByName(ctx, q, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapper.ToUserDTOs(users), nil
}

// Update overlays the present fields of req. An email already used by a
// different user is a conflict.
func (s *UserService) Update(ctx context.Context, id string, req *model.UpdateUserRequest) (*model.UserDTO, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	var dto model.UserDTO
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return userNotFound(id)
			}
			return err
		}

		if req.Email != nil && *req.Email != u.Email {
			other, err := s.users.GetByEmail(ctx, *req.Email)
			switch {
			case err == nil && other.ID != id:
				return emailTaken(*req.Email)
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return err
			}
		}

		if mapper.ApplyUserUpdate(u, req) {
			u.UpdatedAt = s.clock()
			if err := s.users.Update(ctx, u); err != nil {
				switch {
				case errors.Is(err, repository.ErrDuplicateEmail):
					return emailTaken(u.Email)
				case errors.Is(err, repository.ErrNotFound):
					return userNotFound(id)
				}
				return err
			}
		}
		dto = mapper.ToUserDTO(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.evict(ctx, id)
	s.log.Info().Str("user_id", id).Msg("User updated")
	return &dto, nil
}

// UpdateStatus is Update with only the status present.
func (s *UserService) UpdateStatus(ctx context.Context, id string, status model.UserStatus) (*model.UserDTO, error) {
	return s.Update(ctx, id, &model.UpdateUserRequest{Status: &status})
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return userNotFound(id)
		}
		if err := s.users.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return userNotFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.evict(ctx, id)
	s.log.Info().Str("user_id", id).Msg("User deleted")
	return nil
}

// AddSubject appends a new subject to the user's ordered collection.
func (s *UserService) AddSubject(ctx context.Context, userID string, req *model.CreateSubjectRequest) (*model.UserDTO, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	var dto model.UserDTO
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return userNotFound(userID)
			}
			return err
		}

		subject := mapper.NewSubjectFromCreate(req, userID, len(u.Subjects), s.clock())
		if err := s.users.AddSubject(ctx, userID, subject); err != nil {
			return err
		}
		u.Subjects = append(u.Subjects, *subject)
		dto = mapper.ToUserDTO(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.evict(ctx, userID)
	s.log.Info().Str("user_id", userID).Msg("Subject added to user")
	return &dto, nil
}

func (s *UserService) CountByStatus(ctx context.Context, status model.UserStatus) (int64, error) {
	var n int64
	err := s.tx.WithReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.users.CountByStatus(ctx, status)
		return err
	})
	return n, err
}

func (s *UserService) evict(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("User cache eviction failed")
	}
}
