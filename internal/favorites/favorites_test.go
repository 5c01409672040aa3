package favorites

import (
	"context"
	"testing"

	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleAddsAndRemoves(t *testing.T) {
	s := NewSet(nil)

	on, err := s.Toggle("101")
	require.NoError(t, err)
	assert.True(t, on)
	_, err = s.Toggle("2")
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "2"}, s.List())

	on, err = s.Toggle(" 101 ")
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, s.Has("101"))
	assert.Equal(t, []string{"2"}, s.List())
}

func TestToggleRejectsBlankID(t *testing.T) {
	s := NewSet(nil)
	_, err := s.Toggle("  ")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, 0, s.Len())
}

func TestNewSetDropsDuplicates(t *testing.T) {
	s := NewSet([]string{"a", "", "b", "a"})
	assert.Equal(t, []string{"a", "b"}, s.List())
}

func TestListIsACopy(t *testing.T) {
	s := NewSet([]string{"a"})
	list := s.List()
	list[0] = "z"
	assert.True(t, s.Has("a"))
	assert.NotNil(t, NewSet(nil).List())
}

type fakeSessions struct {
	sets map[string]*Set
}

func (f *fakeSessions) UpdateFavorites(_ context.Context, id string, fn func(*Set) error) error {
	set, ok := f.sets[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	working := NewSet(set.List())
	if err := fn(working); err != nil {
		return err
	}
	f.sets[id] = working
	return nil
}

func (f *fakeSessions) ViewFavorites(_ context.Context, id string, fn func(*Set) error) error {
	set, ok := f.sets[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	return fn(set)
}

func TestServiceToggleAndList(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(&fakeSessions{sets: map[string]*Set{"s1": NewSet(nil)}})
	require.NoError(t, err)

	res, err := svc.Toggle(ctx, "s1", "201")
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{ID: "201", Favorite: true, Favorites: []string{"201"}}, res)

	list, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"201"}, list)

	_, err = svc.List(ctx, "nope")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}
