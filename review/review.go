// Package review attaches client feedback to completed bookings. Reviews
// are append-only and strictly one per booking.
package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mentortyme/backend/models"
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrAlreadyReviewed = errors.New("booking already has a review")
	ErrNotCompleted    = errors.New("only completed bookings can be reviewed")
)

// ratingCacheTTL bounds staleness of the cached mentor average.
const ratingCacheTTL = 10 * time.Minute

// Add creates the review for a booking. rdb may be nil; when set, the
// mentor's cached average rating is invalidated.
func Add(ctx context.Context, db *gorm.DB, rdb *redis.Client, bookingID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var b models.Booking
	if err := db.First(&b, bookingID).Error; err != nil {
		return nil, err
	}
	if b.Status != models.StatusCompleted {
		return nil, ErrNotCompleted
	}

	r := &models.Review{
		BookingID: bookingID,
		Rating:    rating,
		Comment:   comment,
	}
	exists, err := r.HasExistingReview(db)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	if err := db.Create(r).Error; err != nil {
		return nil, err
	}

	if rdb != nil {
		rdb.Del(ctx, ratingKey(b.MentorID))
	}
	return r, nil
}

// AverageRating computes the mentor's mean rating rounded to one decimal, or
// 0 with ok=false when the mentor has no reviews yet. The value is cached in
// Redis when rdb is set.
func AverageRating(ctx context.Context, db *gorm.DB, rdb *redis.Client, mentorID uint) (float64, bool, error) {
	key := ratingKey(mentorID)
	if rdb != nil {
		if cached, err := rdb.Get(ctx, key).Result(); err == nil {
			if avg, err := strconv.ParseFloat(cached, 64); err == nil {
				return avg, true, nil
			}
		}
	}

	var avg *float64
	err := db.Model(&models.Review{}).
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("bookings.mentor_id = ?", mentorID).
		Select("AVG(reviews.rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, false, err
	}
	if avg == nil {
		return 0, false, nil
	}

	rounded := math.Round(*avg*10) / 10
	if rdb != nil {
		rdb.Set(ctx, key, strconv.FormatFloat(rounded, 'f', 1, 64), ratingCacheTTL)
	}
	return rounded, true, nil
}

func ratingKey(mentorID uint) string {
	return fmt.Sprintf("mentor:%d:avg_rating", mentorID)
}
