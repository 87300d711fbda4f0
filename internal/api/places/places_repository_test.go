package places

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

func ptr[T any](v T) *T { return &v }

func TestRepository_FindNearby(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	q := types.PlaceQuery{
		Center:       types.Coordinate{Lat: 35.6595, Lng: 139.7005},
		RadiusMeters: 1500,
		Categories:   []types.Category{types.CategoryFood},
		MaxResults:   5,
	}

	rows := pgxmock.NewRows([]string{"name", "category", "latitude", "longitude", "rating", "address", "cost", "distance"}).
		AddRow("Ichiran Shibuya", "Food", 35.6610, 139.7010, 4.4, "1-22-7 Jinnan", ptr(1200.0), 180.0).
		AddRow("Uobei", "food", 35.6600, 139.6990, 4.1, "", (*float64)(nil), 120.0)
	mock.ExpectQuery("FROM places").
		WithArgs(139.7005, 35.6595, 1500.0, []string{"food"}, 5).
		WillReturnRows(rows)

	got, err := repo.FindNearby(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ichiran Shibuya", got[0].Name)
	assert.Equal(t, types.CategoryFood, got[0].Category)
	require.NotNil(t, got[0].Cost)
	assert.InDelta(t, 1200.0, *got[0].Cost, 1e-9)
	assert.Nil(t, got[1].Cost)
	assert.InDelta(t, 35.6600, got[1].Coordinate.Lat, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindNearby_DefaultLimitAndNoCategories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mock.ExpectQuery("FROM places").
		WithArgs(139.7, 35.6, 500.0, []string{}, 10).
		WillReturnRows(pgxmock.NewRows([]string{"name", "category", "latitude", "longitude", "rating", "address", "cost", "distance"}))

	got, err := repo.FindNearby(context.Background(), types.PlaceQuery{
		Center:       types.Coordinate{Lat: 35.6, Lng: 139.7},
		RadiusMeters: 500,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindNearby_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mock.ExpectQuery("FROM places").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 100.0, pgxmock.AnyArg(), 3).
		WillReturnError(errors.New("connection reset"))

	_, err = repo.FindNearby(context.Background(), types.PlaceQuery{RadiusMeters: 100, MaxResults: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query places")
	assert.NoError(t, mock.ExpectationsWereMet())
}
