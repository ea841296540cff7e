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

// SubjectService edits subjects. Owner entries in the user cache embed their
// subjects, so every write evicts the owning user.
type SubjectService struct {
	subjects SubjectStore
	tx       Transactor
	cache    cache.UserCache
	policy   pagination.Policy
	clock    func() time.Time
	log      zerolog.Logger
}

func NewSubjectService(subjects SubjectStore, tx Transactor, userCache cache.UserCache, policy pagination.Policy, log zerolog.Logger) *SubjectService {
	if userCache == nil {
		userCache = cache.NoopUserCache{}
	}
	return &SubjectService{
		subjects: subjects,
		tx:       tx,
		cache:    userCache,
		policy:   policy,
		clock:    now,
		log:      log.With().Str("component", "subject_service").Logger(),
	}
}

func subjectNotFound(id string) error {
	return apperror.NotFound("Subject not found with ID: %s", id)
}

// GetByID returns nil, nil when the subject does not exist.
func (s *SubjectService) GetByID(ctx context.Context, id string) (*model.SubjectDTO, error) {
	var subject *model.Subject
	err := s.tx.WithReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		subject, err = s.subjects.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	dto := mapper.ToSubjectDTO(subject)
	return &dto, nil
}

func (s *SubjectService) ListPaged(ctx context.Context, page int, size *int, sort, direction string) (*model.Page[model.SubjectDTO], error) {
	req, err := s.policy.Resolve(page, size, sort, direction, repository.SubjectSortable)
	if err != nil {
		return nil, err
	}

	var (
		subjects []model.Subject
		total    int64
	)
	err = s.tx.WithReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		subjects, total, err = s.subjects.ListPaged(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return model.NewPage(mapper.ToSubjectDTOs(subjects), req.Page, req.Size, total, req.Sort, string(req.Direction)), nil
}

// Search matches names case-insensitively. limit must be in [1, 100].
func (s *SubjectService) Search(ctx context.Context, q string, limit int) ([]model.SubjectDTO, error) {
	if err := pagination.ValidateLimit(limit, MaxSearchLimit); err != nil {
		return nil, err
	}

	var subjects []model.Subject
	err := s.tx.WithReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		subjects, err = s.subjects.SearchByName(ctx, q, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapper.ToSubjectDTOs(subjects), nil
}

func (s *SubjectService) ListByCode(ctx context.Context, code string) ([]model.SubjectDTO, error) {
	var subjects []model.Subject
	err := s.tx.WithReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		subjects, err = s.subjects.ListByCode(ctx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapper.ToSubjectDTOs(subjects), nil
}

// Update validates and overlays only the fields present in req.
func (s *SubjectService) Update(ctx context.Context, id string, req *model.UpdateSubjectRequest) (*model.SubjectDTO, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	var (
		dto   model.SubjectDTO
		owner *string
	)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		subject, err := s.subjects.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return subjectNotFound(id)
			}
			return err
		}

		if mapper.ApplySubjectUpdate(subject, req) {
			subject.UpdatedAt = s.clock()
			if err := s.subjects.Update(ctx, subject); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return subjectNotFound(id)
				}
				return err
			}
		}
		dto = mapper.ToSubjectDTO(subject)
		owner = subject.UserID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.evictOwner(ctx, owner)
	s.log.Info().Str("subject_id", id).Msg("Subject updated")
	return &dto, nil
}

func (s *SubjectService) Delete(ctx context.Context, id string) error {
	var owner *string
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		subject, err := s.subjects.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return subjectNotFound(id)
			}
			return err
		}
		owner = subject.UserID
		if err := s.subjects.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return subjectNotFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.evictOwner(ctx, owner)
	s.log.Info().Str("subject_id", id).Msg("Subject deleted")
	return nil
}

func (s *SubjectService) evictOwner(ctx context.Context, userID *string) {
	if userID == nil {
		return
	}
	if err := s.cache.Delete(ctx, *userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", *userID).Msg("User cache eviction failed")
	}
}
