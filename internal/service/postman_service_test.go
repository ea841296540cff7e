package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/training/practice/internal/model"
)

func TestPostmanServiceMapsToInternalSchema(t *testing.T) {
	ctx := context.Background()
	api := &fakePostmanAPI{users: map[model.PostmanID]model.PostmanWireUser{
		1: {ID: 1, Name: "Leanne", Email: "l@x.com", Status: "active", Roles: map[string]bool{"admin": true}},
		2: {ID: 2, Name: "Ervin", Email: "e@x.com"},
	}}
	svc := NewPostmanService(api, zerolog.Nop())

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "Leanne", users[0].UserPostmanName)
	require.Equal(t, "User with ACTIVE", users[0].UserPostmanStatus)
	require.True(t, users[0].UserPostmanRoles["admin"])
	require.Equal(t, "", users[1].UserPostmanStatus)

	one, err := svc.GetUser(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "User with ACTIVE", one.UserPostmanStatus)
	require.Equal(t, "active", api.users[1].Status)

	_, err = svc.ListUsersByRole(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, "admin", api.lastRole)
}

func TestPostmanServiceSendsWireSchema(t *testing.T) {
	ctx := context.Background()
	api := &fakePostmanAPI{users: map[model.PostmanID]model.PostmanWireUser{}}
	svc := NewPostmanService(api, zerolog.Nop())

	created, err := svc.CreateUser(ctx, &model.PostmanUserRequest{
		UserPostmanName:   "Leanne",
		UserPostmanEmail:  "l@x.com",
		UserPostmanStatus: "pending",
	})
	require.NoError(t, err)
	require.Equal(t, model.PostmanWireUser{Name: "Leanne", Email: "l@x.com", Status: "pending"}, api.lastBody)
	require.Equal(t, model.PostmanID(99), created.ID)
	require.Equal(t, "User with PENDING", created.UserPostmanStatus)

	_, err = svc.PatchUser(ctx, 5, &model.PostmanUserRequest{UserPostmanName: "New"})
	require.NoError(t, err)
	require.Equal(t, model.PostmanWireUser{Name: "New"}, api.lastBody)

	perms, err := svc.GetUserPermissions(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, perms)
	require.Empty(t, perms)
}
