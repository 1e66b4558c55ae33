package repository

import (
	"context"
	"os"
	"testing"

	"github.com/shenikar/civicflow/internal/models"
	"github.com/shenikar/civicflow/internal/service"
	"github.com/shenikar/civicflow/pkg/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тесты работают с настоящей базой и запускаются только при заданном TEST_DATABASE_URL
func newTestRepository(t *testing.T) service.ComplaintRepository {
	t.Helper()
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	require.NoError(t, postgres.Migrate("file://../../migrations", databaseURL))

	ctx := context.Background()
	db, err := postgres.NewPostgresDB(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, "TRUNCATE complaints RESTART IDENTITY;")
	require.NoError(t, err)

	return NewComplaintRepository(db)
}

func newComplaint(title string) *models.Complaint {
	return &models.Complaint{
		Name:        "Asha",
		Email:       "asha@example.com",
		Title:       title,
		Description: "details",
		Location:    "12.97,77.59",
		ImageURL:    "/uploads/photo.jpg",
	}
}

func TestComplaintRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	complaint := newComplaint("Pothole")
	require.NoError(t, repo.Create(ctx, complaint))
	assert.NotZero(t, complaint.ID)
	assert.Equal(t, models.StatusPending, complaint.Status)
	assert.False(t, complaint.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pothole", got.Title)
	assert.Equal(t, "12.97,77.59", got.Location)
	assert.Equal(t, "/uploads/photo.jpg", got.ImageURL)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestComplaintRepository_CreateRejectsMissingFields(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Create(context.Background(), &models.Complaint{Title: "no author"})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestComplaintRepository_ListOrderedByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newComplaint("first")))
	require.NoError(t, repo.Create(ctx, newComplaint("second")))

	complaints, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, complaints, 2)
	assert.Equal(t, "first", complaints[0].Title)
	assert.Equal(t, "second", complaints[1].Title)
}

func TestComplaintRepository_UpdateStatus(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	complaint := newComplaint("Streetlight")
	require.NoError(t, repo.Create(ctx, complaint))

	updated, err := repo.UpdateStatus(ctx, complaint.ID, models.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)
	assert.Equal(t, "Streetlight", updated.Title)
	assert.False(t, updated.UpdatedAt.Before(complaint.UpdatedAt))
}

func TestComplaintRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = repo.UpdateStatus(ctx, 9999, models.StatusResolved)
	assert.ErrorIs(t, err, service.ErrNotFound)

	complaints, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, complaints)
}
