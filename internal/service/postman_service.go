package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/training/practice/internal/mapper"
	"github.com/training/practice/internal/model"
)

// PostmanService proxies the remote user API and converts its records to the
// internal schema. Errors from the client are already classified.
type PostmanService struct {
	api PostmanAPI
	log zerolog.Logger
}

func NewPostmanService(api PostmanAPI, log zerolog.Logger) *PostmanService {
	return &PostmanService{
		api: api,
		log: log.With().Str("component", "postman_service").Logger(),
	}
}

func (s *PostmanService) ListUsers(ctx context.Context) ([]model.PostmanUser, error) {
	s.log.Info().Msg("Fetching all remote users")
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToInternals(users), nil
}

func (s *PostmanService) GetUser(ctx context.Context, id model.PostmanID) (*model.PostmanUser, error) {
	s.log.Info().Int64("remote_id", int64(id)).Msg("Fetching remote user")
	return one(s.api.GetUser(ctx, id))
}

func (s *PostmanService) ListUsersByRole(ctx context.Context, role string) ([]model.PostmanUser, error) {
	s.log.Info().Str("role", role).Msg("Fetching remote users by role")
	users, err := s.api.ListUsersByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return mapper.ToInternals(users), nil
}

func (s *PostmanService) CreateUser(ctx context.Context, req *model.PostmanUserRequest) (*model.PostmanUser, error) {
	s.log.Info().Str("name", req.UserPostmanName).Msg("Creating remote user")
	return one(s.api.CreateUser(ctx, mapper.ToWireRequest(req)))
}

func (s *PostmanService) UpdateUser(ctx context.Context, id model.PostmanID, req *model.PostmanUserRequest) (*model.PostmanUser, error) {
	s.log.Info().Int64("remote_id", int64(id)).Msg("Replacing remote user")
	return one(s.api.UpdateUser(ctx, id, mapper.ToWireRequest(req)))
}

func (s *PostmanService) PatchUser(ctx context.Context, id model.PostmanID, req *model.PostmanUserRequest) (*model.PostmanUser, error) {
	s.log.Info().Int64("remote_id", int64(id)).Msg("Patching remote user")
	return one(s.api.PatchUser(ctx, id, mapper.ToWireRequest(req)))
}

func (s *PostmanService) DeleteUser(ctx context.Context, id model.PostmanID) error {
	s.log.Info().Int64("remote_id", int64(id)).Msg("Deleting remote user")
	return s.api.DeleteUser(ctx, id)
}

func (s *PostmanService) GetUserPermissions(ctx context.Context, id model.PostmanID) ([]string, error) {
	perms, err := s.api.GetUserPermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	if perms == nil {
		perms = []string{}
	}
	return perms, nil
}

func (s *PostmanService) AssignRole(ctx context.Context, id model.PostmanID, role string) (*model.PostmanUser, error) {
	s.log.Info().Int64("remote_id", int64(id)).Str("role", role).Msg("Assigning role to remote user")
	return one(s.api.AssignRole(ctx, id, role))
}

func one(w *model.PostmanWireUser, err error) (*model.PostmanUser, error) {
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}
	u := mapper.ToInternal(*w)
	return &u, nil
}
