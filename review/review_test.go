package review

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mentortyme/backend/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Profile{}, &models.Service{},
		&models.WorkingHour{}, &models.Booking{}, &models.Review{},
	))
	return db
}

func createBooking(t *testing.T, db *gorm.DB, mentorID uint, status models.BookingStatus) *models.Booking {
	t.Helper()
	b := models.Booking{
		ClientID:  1,
		MentorID:  mentorID,
		StartTime: time.Now().Add(-2 * time.Hour),
		EndTime:   time.Now().Add(-1 * time.Hour),
		Status:    status,
	}
	require.NoError(t, db.Create(&b).Error)
	return &b
}

func TestAddReview(t *testing.T) {
	db := setupDB(t)
	b := createBooking(t, db, 10, models.StatusCompleted)

	r, err := Add(context.Background(), db, nil, b.ID, 5, "very helpful session")
	require.NoError(t, err)
	assert.Equal(t, b.ID, r.BookingID)
	assert.Equal(t, 5, r.Rating)

	var stored models.Review
	require.NoError(t, db.First(&stored, r.ID).Error)
	assert.Equal(t, "very helpful session", stored.Comment)
}

func TestAddReviewTwiceRejected(t *testing.T) {
	db := setupDB(t)
	b := createBooking(t, db, 10, models.StatusCompleted)

	ctx := context.Background()
	_, err := Add(ctx, db, nil, b.ID, 4, "")
	require.NoError(t, err)

	_, err = Add(ctx, db, nil, b.ID, 5, "changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestAddReviewRatingBounds(t *testing.T) {
	db := setupDB(t)
	b := createBooking(t, db, 10, models.StatusCompleted)

	ctx := context.Background()
	for _, rating := range []int{0, -1, 6, 100} {
		_, err := Add(ctx, db, nil, b.ID, rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}
}

func TestAddReviewRequiresCompletedBooking(t *testing.T) {
	db := setupDB(t)
	b := createBooking(t, db, 10, models.StatusConfirmed)

	_, err := Add(context.Background(), db, nil, b.ID, 5, "")
	assert.ErrorIs(t, err, ErrNotCompleted)
}

func TestAverageRating(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	first := createBooking(t, db, 10, models.StatusCompleted)
	second := createBooking(t, db, 10, models.StatusCompleted)
	foreign := createBooking(t, db, 11, models.StatusCompleted)

	_, err := Add(ctx, db, nil, first.ID, 4, "")
	require.NoError(t, err)
	_, err = Add(ctx, db, nil, second.ID, 5, "")
	require.NoError(t, err)
	_, err = Add(ctx, db, nil, foreign.ID, 1, "")
	require.NoError(t, err)

	avg, ok, err := AverageRating(ctx, db, nil, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4.5, avg)
}

func TestAverageRatingNoReviews(t *testing.T) {
	db := setupDB(t)

	avg, ok, err := AverageRating(context.Background(), db, nil, 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, avg)
}
