package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mentortyme/backend/utils"
)

type Role string

const (
	RoleClient Role = "client"
	RoleMentor Role = "mentor"
)

// Profile carries the public identity of a user and their role. Every user
// has exactly one profile; mentors additionally own services and a schedule.
type Profile struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex"`
	User   User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Role   Role `json:"role" gorm:"default:client"`

	Bio      string `json:"bio" gorm:"size:500"`
	Age      *uint  `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	City     string `json:"city,omitempty"`
	Position string `json:"position,omitempty"`

	AvatarURL string `json:"avatar_url,omitempty"`

	// Slug is assigned once at creation and never changes; it is the public
	// URL handle of the profile.
	Slug string `json:"slug" gorm:"uniqueIndex;size:120"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Services     []Service     `json:"services,omitempty" gorm:"foreignKey:MentorID"`
	WorkingHours []WorkingHour `json:"working_hours,omitempty" gorm:"foreignKey:MentorID"`
}

var ErrEmptySlug = errors.New("profile slug cannot be empty")

// NewProfile builds a profile for a user with the slug derived from the
// user's name, computed once here rather than in a persistence hook. When
// the slug is already taken a short random suffix is appended.
func NewProfile(tx *gorm.DB, user User, role Role) (*Profile, error) {
	slug := utils.Slugify(user.Name)
	if slug == "" {
		slug = utils.Slugify(user.Email)
	}
	if slug == "" {
		return nil, ErrEmptySlug
	}

	var count int64
	if err := tx.Model(&Profile{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		slug = fmt.Sprintf("%s-%s", slug, uuid.NewString()[:8])
	}

	return &Profile{
		UserID: user.ID,
		Role:   role,
		Slug:   slug,
	}, nil
}

// IsMentor reports whether the profile belongs to a mentor.
func (p *Profile) IsMentor() bool {
	return p.Role == RoleMentor
}
