package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-itinerary-health/internal/types"
)

var _ Repository = (*FileRepository)(nil)

// FileRepository keeps a single trip in a JSON file. It backs the offline
// CLI.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (f *FileRepository) Path() string { return f.path }

// LoadTrip reads the file. A non-nil tripID must match the stored trip.
func (f *FileRepository) LoadTrip(_ context.Context, tripID uuid.UUID) (*types.Trip, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrTripNotFound, f.path)
		}
		return nil, fmt.Errorf("failed to read trip file: %w", err)
	}
	var trip types.Trip
	if err := json.Unmarshal(data, &trip); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", types.ErrInvalidTrip, f.path, err)
	}
	if tripID != uuid.Nil && trip.ID != tripID {
		return nil, fmt.Errorf("%w: %s holds %s", types.ErrTripNotFound, f.path, trip.ID)
	}
	return &trip, nil
}

// SaveTrip writes through a temporary file and renames it over the original
// so readers never see a partial trip.
func (f *FileRepository) SaveTrip(_ context.Context, trip *types.Trip) error {
	data, err := json.MarshalIndent(trip, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode trip: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".trip-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write trip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write trip: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace trip file: %w", err)
	}
	return nil
}
