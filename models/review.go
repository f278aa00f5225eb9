package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a client's feedback on a completed booking. Exactly one review
// may exist per booking and it is never updated or deleted.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BookingID uint      `json:"booking_id" gorm:"uniqueIndex"`
	Booking   Booking   `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// HasExistingReview reports whether the booking already carries a review.
func (r *Review) HasExistingReview(tx *gorm.DB) (bool, error) {
	var count int64
	err := tx.Model(&Review{}).
		Where("booking_id = ?", r.BookingID).
		Count(&count).Error
	return count > 0, err
}
