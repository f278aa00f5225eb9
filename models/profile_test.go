package models

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Profile{}, &Service{}, &WorkingHour{}, &Booking{}, &Review{}))
	return db
}

func TestNewProfileSlugFromName(t *testing.T) {
	db := setupDB(t)

	user := User{Name: "John Doe", Email: "john@example.com"}
	require.NoError(t, db.Create(&user).Error)

	p, err := NewProfile(db, user, RoleMentor)
	require.NoError(t, err)
	assert.Equal(t, "john-doe", p.Slug)
	assert.Equal(t, RoleMentor, p.Role)
}

func TestNewProfileSlugCollisionGetsSuffix(t *testing.T) {
	db := setupDB(t)

	first := User{Name: "John Doe", Email: "john1@example.com"}
	require.NoError(t, db.Create(&first).Error)
	p1, err := NewProfile(db, first, RoleMentor)
	require.NoError(t, err)
	require.NoError(t, db.Create(p1).Error)

	second := User{Name: "John Doe", Email: "john2@example.com"}
	require.NoError(t, db.Create(&second).Error)
	p2, err := NewProfile(db, second, RoleClient)
	require.NoError(t, err)

	assert.NotEqual(t, p1.Slug, p2.Slug)
	assert.True(t, strings.HasPrefix(p2.Slug, "john-doe-"))
}

func TestNewProfileFallsBackToEmail(t *testing.T) {
	db := setupDB(t)

	user := User{Name: "---", Email: "john@example.com"}
	require.NoError(t, db.Create(&user).Error)

	p, err := NewProfile(db, user, RoleClient)
	require.NoError(t, err)
	assert.Equal(t, "john-example-com", p.Slug)
}

func TestNewBookingDerivedFields(t *testing.T) {
	client := Profile{ID: 1}
	mentor := Profile{ID: 2}
	svc := Service{ID: 3, MentorID: 2, Duration: 90, Price: 75.5}
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	b := NewBooking(client, mentor, svc, start, "hello")
	assert.Equal(t, start.Add(90*time.Minute), b.EndTime)
	assert.Equal(t, 75.5, b.PriceAtBooking)
	assert.Equal(t, StatusConfirmed, b.Status)
	require.NotNil(t, b.ServiceID)
	assert.Equal(t, svc.ID, *b.ServiceID)
}

func TestNewBookingTruncatesLongNote(t *testing.T) {
	note := strings.Repeat("я", NoteMaxLen+50)
	b := NewBooking(Profile{ID: 1}, Profile{ID: 2}, Service{Duration: 30}, time.Now(), note)
	assert.Equal(t, NoteMaxLen, len([]rune(b.Note)))
}
