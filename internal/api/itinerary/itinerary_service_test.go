package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-health/internal/health"
	"github.com/FACorreiaa/go-itinerary-health/internal/repair"
	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LoadTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

func (m *MockRepository) SaveTrip(ctx context.Context, trip *types.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func mins(m int) *int { return &m }

const overlapIssue = "overlap:d1:sensoji:skytree"

func overlappingTrip(id uuid.UUID) *types.Trip {
	return &types.Trip{ID: id, Name: "Tokyo", Days: []types.Day{
		{Number: 1, Activities: []types.Activity{
			{ID: "sensoji", Title: "Senso-ji", Category: types.CategoryCulture, Time: "09:00", Duration: mins(90)},
			{ID: "skytree", Title: "Skytree", Category: types.CategorySightseeing, Time: "10:00", Duration: mins(60)},
		}},
		{Number: 2},
	}}
}

func activityByID(t *testing.T, day types.Day, id string) types.Activity {
	t.Helper()
	for _, a := range day.Activities {
		if a.ID == id {
			return a
		}
	}
	require.Failf(t, "activity not found", "day %d has no activity %q", day.Number, id)
	return types.Activity{}
}

func setupService(t *testing.T, repo Repository) *ServiceImpl {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	checker, err := health.NewChecker(health.DefaultConfig())
	require.NoError(t, err)
	engine := repair.NewEngine(repair.DefaultConfig(), checker.Estimator(), checker.Coverage(), nil, logger)
	return NewServiceImpl(repo, checker, engine, 20, logger)
}

func TestService_Check(t *testing.T) {
	svc := setupService(t, nil)

	t.Run("valid trip", func(t *testing.T) {
		report, err := svc.Check(context.Background(), overlappingTrip(uuid.New()))
		require.NoError(t, err)
		require.NotEmpty(t, report.Critical)
		assert.Equal(t, overlapIssue, report.Critical[0].ID)
	})

	t.Run("invalid trip", func(t *testing.T) {
		trip := overlappingTrip(uuid.New())
		trip.Days[1].Number = 5
		_, err := svc.Check(context.Background(), trip)
		assert.ErrorIs(t, err, types.ErrInvalidTrip)
	})
}

func TestService_CheckTrip(t *testing.T) {
	id := uuid.New()

	t.Run("loaded trip is analysed", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("LoadTrip", mock.Anything, id).Return(overlappingTrip(id), nil)

		report, err := setupService(t, repo).CheckTrip(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id.String(), report.TripID)
		repo.AssertNotCalled(t, "SaveTrip", mock.Anything, mock.Anything)
	})

	t.Run("not found is passed through", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("LoadTrip", mock.Anything, id).Return(nil, types.ErrTripNotFound)

		_, err := setupService(t, repo).CheckTrip(context.Background(), id)
		assert.ErrorIs(t, err, types.ErrTripNotFound)
	})
}

func TestService_ApplyFix(t *testing.T) {
	id := uuid.New()

	t.Run("applied fix is saved", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("LoadTrip", mock.Anything, id).Return(overlappingTrip(id), nil)
		repo.On("SaveTrip", mock.Anything, mock.MatchedBy(func(trip *types.Trip) bool {
			for _, a := range trip.Days[0].Activities {
				if a.ID == "skytree" {
					return a.Time != "10:00"
				}
			}
			return false
		})).Return(nil).Once()

		result, err := setupService(t, repo).ApplyFix(context.Background(), id, overlapIssue)
		require.NoError(t, err)
		require.Len(t, result.Outcomes, 1)
		assert.True(t, result.Outcomes[0].Applied)
		assert.Equal(t, 1, result.Applied)
		assert.True(t, result.Saved)
		assert.Empty(t, result.Report.Critical)
		repo.AssertExpectations(t)
	})

	t.Run("infeasible fix is not saved", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("LoadTrip", mock.Anything, id).Return(overlappingTrip(id), nil)

		result, err := setupService(t, repo).ApplyFix(context.Background(), id, "empty:d2")
		require.NoError(t, err)
		require.Len(t, result.Outcomes, 1)
		assert.False(t, result.Outcomes[0].Applied)
		assert.NotEmpty(t, result.Outcomes[0].Reason)
		assert.False(t, result.Saved)
		repo.AssertNotCalled(t, "SaveTrip", mock.Anything, mock.Anything)
	})

	t.Run("unknown issue", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("LoadTrip", mock.Anything, id).Return(overlappingTrip(id), nil)

		_, err := setupService(t, repo).ApplyFix(context.Background(), id, "overlap:d9:a:b")
		assert.ErrorIs(t, err, types.ErrIssueNotFound)
	})

	t.Run("save failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("LoadTrip", mock.Anything, id).Return(overlappingTrip(id), nil)
		repo.On("SaveTrip", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := setupService(t, repo).ApplyFix(context.Background(), id, overlapIssue)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save trip")
	})
}

func TestService_FixAll(t *testing.T) {
	id := uuid.New()
	repo := new(MockRepository)
	repo.On("LoadTrip", mock.Anything, id).Return(overlappingTrip(id), nil)
	repo.On("SaveTrip", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := setupService(t, repo).FixAll(context.Background(), id)
	require.NoError(t, err)
	require.NotEmpty(t, result.Outcomes)
	assert.Equal(t, types.KindOverlap, result.Outcomes[0].Kind)
	assert.Greater(t, result.Applied, 1)
	assert.True(t, result.Saved)
	assert.Empty(t, result.Report.Critical)
	repo.AssertNumberOfCalls(t, "SaveTrip", 1)
}

func TestService_FixAllOnDoesNotSave(t *testing.T) {
	svc := setupService(t, nil)
	trip := overlappingTrip(uuid.Nil)

	result, err := svc.FixAllOn(context.Background(), trip)
	require.NoError(t, err)
	assert.False(t, result.Saved)
	assert.Empty(t, result.TripID)
	assert.Equal(t, "10:45", activityByID(t, trip.Days[0], "skytree").Time)
}

// slowRepository records how many loads of the same trip overlap.
type slowRepository struct {
	trip    *types.Trip
	mu      sync.Mutex
	active  int32
	maxSeen int32
}

func (s *slowRepository) LoadTrip(_ context.Context, _ uuid.UUID) (*types.Trip, error) {
	n := atomic.AddInt32(&s.active, 1)
	for {
		seen := atomic.LoadInt32(&s.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&s.maxSeen, seen, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(&s.active, -1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trip.Clone(), nil
}

func (s *slowRepository) SaveTrip(_ context.Context, trip *types.Trip) error {
	s.mu.Lock()
	s.trip = trip.Clone()
	s.mu.Unlock()
	return nil
}

func TestService_ApplyFixSerialisesPerTrip(t *testing.T) {
	id := uuid.New()
	repo := &slowRepository{trip: overlappingTrip(id)}
	svc := setupService(t, repo)

	var (
		wg      sync.WaitGroup
		applied int32
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.ApplyFix(context.Background(), id, overlapIssue)
			if errors.Is(err, types.ErrIssueNotFound) {
				return
			}
			if assert.NoError(t, err) && result.Applied > 0 {
				atomic.AddInt32(&applied, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), applied)
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.maxSeen))
	assert.Equal(t, 0, svc.locks.size())
}
