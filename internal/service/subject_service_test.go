package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/training/practice/internal/apperror"
	"github.com/training/practice/internal/model"
	"github.com/training/practice/internal/pagination"
)

func newSubjectService(seed ...model.Subject) (*SubjectService, *fakeSubjectStore) {
	svc, store, _ := newSubjectServiceWithCache(seed...)
	return svc, store
}

func newSubjectServiceWithCache(seed ...model.Subject) (*SubjectService, *fakeSubjectStore, *fakeCache) {
	store := newFakeSubjectStore(seed...)
	c := newFakeCache()
	svc := NewSubjectService(store, &fakeTx{}, c, pagination.Policy{DefaultSize: 10, MaxSize: 100}, zerolog.Nop())
	return svc, store, c
}

func TestSubjectServiceUpdate(t *testing.T) {
	ctx := context.Background()
	seed := model.Subject{ID: "s1", Name: "Physics", Code: "PHY", Description: strPtr("motion")}

	t.Run("overlays only present fields", func(t *testing.T) {
		svc, store := newSubjectService(seed)

		dto, err := svc.Update(ctx, "s1", &model.UpdateSubjectRequest{Name: strPtr("Quantum Physics")})
		require.NoError(t, err)
		require.Equal(t, "Quantum Physics", dto.Name)
		require.Equal(t, "PHY", dto.Code)
		require.Equal(t, "motion", *dto.Description)
		require.Equal(t, "Quantum Physics", store.subjects["s1"].Name)
	})

	t.Run("validates present fields", func(t *testing.T) {
		svc, store := newSubjectService(seed)

		_, err := svc.Update(ctx, "s1", &model.UpdateSubjectRequest{Code: strPtr("PHYS")})
		require.True(t, apperror.Is(err, apperror.KindValidation))
		require.Equal(t, "PHY", store.subjects["s1"].Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _ := newSubjectService()
		_, err := svc.Update(ctx, "nope", &model.UpdateSubjectRequest{Name: strPtr("Chemistry")})
		require.True(t, apperror.Is(err, apperror.KindNotFound))
		require.Equal(t, "Subject not found with ID: nope", err.Error())
	})
}

func TestSubjectServiceReadsAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, store := newSubjectService(
		model.Subject{ID: "s1", Name: "Physics", Code: "PHY"},
		model.Subject{ID: "s2", Name: "Physical Education", Code: "PED"},
		model.Subject{ID: "s3", Name: "Chemistry", Code: "PHY"},
	)

	got, err := svc.GetByID(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, got)

	page, err := svc.ListPaged(ctx, 0, intPtr(500), "", "")
	require.NoError(t, err)
	require.Equal(t, 100, store.lastPage.Size)
	require.Len(t, page.Content, 3)

	_, err = svc.ListPaged(ctx, 0, nil, "password", "")
	require.True(t, apperror.Is(err, apperror.KindBadRequest))

	found, err := svc.Search(ctx, "phys", 50)
	require.NoError(t, err)
	require.Len(t, found, 2)

	byCode, err := svc.ListByCode(ctx, "PHY")
	require.NoError(t, err)
	require.Len(t, byCode, 2)

	require.True(t, apperror.Is(svc.Delete(ctx, "missing"), apperror.KindNotFound))
	require.NoError(t, svc.Delete(ctx, "s1"))
	require.NotContains(t, store.subjects, "s1")
}

func TestSubjectWritesEvictOwnerFromUserCache(t *testing.T) {
	ctx := context.Background()
	owner := "u1"
	seed := []model.Subject{
		{ID: "s1", Name: "Math", Code: "MAT", UserID: &owner},
		{ID: "s2", Name: "Art", Code: "ART", UserID: &owner},
		{ID: "s3", Name: "Loose", Code: "LOS"},
	}

	t.Run("update", func(t *testing.T) {
		svc, _, c := newSubjectServiceWithCache(seed...)
		c.entries[owner] = model.UserDTO{ID: owner, Subjects: []model.SubjectDTO{{ID: "s1", Name: "Math"}}}

		_, err := svc.Update(ctx, "s1", &model.UpdateSubjectRequest{Name: strPtr("Physics")})
		require.NoError(t, err)

		cached, err := c.Get(ctx, owner)
		require.NoError(t, err)
		require.Nil(t, cached)
		require.Equal(t, []string{owner}, c.deletes)
	})

	t.Run("delete", func(t *testing.T) {
		svc, _, c := newSubjectServiceWithCache(seed...)
		c.entries[owner] = model.UserDTO{ID: owner}

		require.NoError(t, svc.Delete(ctx, "s2"))
		require.NotContains(t, c.entries, owner)
		require.Equal(t, []string{owner}, c.deletes)
	})

	t.Run("failed write evicts nothing", func(t *testing.T) {
		svc, _, c := newSubjectServiceWithCache(seed...)
		c.entries[owner] = model.UserDTO{ID: owner}

		require.True(t, apperror.Is(svc.Delete(ctx, "missing"), apperror.KindNotFound))
		_, err := svc.Update(ctx, "s1", &model.UpdateSubjectRequest{Code: strPtr("TOOLONG")})
		require.True(t, apperror.Is(err, apperror.KindValidation))
		require.Contains(t, c.entries, owner)
		require.Empty(t, c.deletes)
	})

	t.Run("ownerless subject", func(t *testing.T) {
		svc, _, c := newSubjectServiceWithCache(seed...)

		require.NoError(t, svc.Delete(ctx, "s3"))
		require.Empty(t, c.deletes)
	})
}
