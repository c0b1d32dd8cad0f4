package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/vibetrack/internal/models"
)

type fakeLister struct {
	disciplines []models.Discipline
	err         error
}

func (f fakeLister) ListDisciplines(context.Context) ([]models.Discipline, error) {
	return f.disciplines, f.err
}

func TestResolveDiscipline(t *testing.T) {
	store := fakeLister{disciplines: []models.Discipline{
		{ID: 1, Name: "Mathematics"},
		{ID: 2, Name: "Physics"},
		{ID: 3, Name: "Lab A"},
		{ID: 4, Name: "Lab B"},
		{ID: 5, Name: "Algebra"},
		{ID: 6, Name: "Algebra II"},
	}}

	tests := []struct {
		name   string
		arg    string
		wantID uint
	}{
		{"by id", "2", 2},
		{"exact name", "Lab A", 3},
		{"exact name with spaces", "  Lab B ", 4},
		{"fuzzy", "phys", 2},
		{"fuzzy case-insensitive", "MATHS", 1},
		{"shorter name wins", "alg", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDiscipline(context.Background(), store, tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolveDiscipline_Failures(t *testing.T) {
	ctx := context.Background()
	store := fakeLister{disciplines: []models.Discipline{
		{ID: 1, Name: "Lab A"},
		{ID: 2, Name: "Lab B"},
	}}

	_, err := resolveDiscipline(ctx, store, "lab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = resolveDiscipline(ctx, store, "zzz")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = resolveDiscipline(ctx, fakeLister{}, "anything")
	assert.Error(t, err)

	boom := errors.New("disk I/O error")
	_, err = resolveDiscipline(ctx, fakeLister{err: boom}, "Lab A")
	assert.ErrorIs(t, err, boom)
}
