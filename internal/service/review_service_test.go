package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tindaph/tinda-backend/internal/model"
)

func TestReviews(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.signUp(t, "reviewer@example.com", model.RoleUser, cebu)

	tests := []struct {
		name    string
		rating  int
		comment string
		field   string
	}{
		{"zero rating", 0, "ok", "rating"},
		{"six stars", 6, "ok", "rating"},
		{"blank comment", 4, "   ", "comment"},
		{"long comment", 4, strings.Repeat("a", 1001), "comment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.reviews.Create(ctx, user, tt.rating, tt.comment)
			assert.Equal(t, tt.field, validationField(err))
		})
	}

	_, err := e.reviews.Create(ctx, nil, 5, "great")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	r, err := e.reviews.Create(ctx, user, 5, "  Sulit! Nabenta ko agad.  ")
	require.NoError(t, err)
	assert.Equal(t, "Sulit! Nabenta ko agad.", r.Comment)

	list, err := e.reviews.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Rating)
	assert.Equal(t, "Name reviewer@example.com", list[0].UserName)
	assert.Equal(t, "Cebu City", list[0].UserCity)
}

func TestUserServiceGet(t *testing.T) {
	e := newEnv(t)
	user := e.signUp(t, "someone@example.com", model.RoleUser, cebu)
	svc := NewUserService(e.users)

	u, err := svc.Get(context.Background(), user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", u.Email)

	_, err = svc.Get(context.Background(), "")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
