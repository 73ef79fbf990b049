package nomenclature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/core/apperror"
)

type stubRepo struct {
	Repository
	upserted  []string
	cityCalls []Filter
}

func (r *stubRepo) UpsertFederations(_ context.Context, names []string) ([]Federation, error) {
	r.upserted = names
	out := make([]Federation, len(names))
	for i, n := range names {
		out[i] = Federation{ID: i + 1, Name: n}
	}
	return out, nil
}

func (r *stubRepo) Cities(_ context.Context, f Filter) ([]City, error) {
	r.cityCalls = append(r.cityCalls, f)
	return []City{{ID: 7, Name: "Cluj-Napoca", CountyID: 12}}, nil
}

func TestAddFederations_TrimsAndDeduplicates(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	got, err := svc.AddFederations(context.Background(), []string{" FOND ", "fond", "", "Federatia X"})
	require.NoError(t, err)

	assert.Equal(t, []string{"FOND", "Federatia X"}, repo.upserted)
	assert.Len(t, got, 2)
}

func TestAddFederations_EmptySkipsRepository(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	got, err := svc.AddFederations(context.Background(), []string{"  "})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, repo.upserted)
}

func TestGetCities_EmptyIDs(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	got, err := svc.GetCities(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, repo.cityCalls)
}

func TestSearchCities_RequiresCriteria(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.SearchCities(context.Background(), " ", 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	cities, err := svc.SearchCities(context.Background(), "cluj", 0)
	require.NoError(t, err)
	assert.Len(t, cities, 1)
}
