package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mentortyme/backend/gcal"
	"github.com/mentortyme/backend/models"
)

type fakeCalendar struct {
	created   []string
	deleted   []string
	createErr error
	deleteErr error
}

func (f *fakeCalendar) FetchBusy(ctx context.Context, user *models.User, date time.Time) ([]gcal.BusyPeriod, error) {
	return nil, nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, user *models.User, start time.Time, durationMinutes int, summary, description string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	id := fmt.Sprintf("evt-%d", len(f.created)+1)
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, user *models.User, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return f.deleteErr
}

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

func createProfile(t *testing.T, db *gorm.DB, name, email, slug string, role models.Role) *models.Profile {
	t.Helper()
	user := models.User{Name: name, Email: email}
	require.NoError(t, db.Create(&user).Error)
	profile := models.Profile{UserID: user.ID, Role: role, Slug: slug}
	require.NoError(t, db.Create(&profile).Error)
	return &profile
}

func createService(t *testing.T, db *gorm.DB, mentorID uint, price float64) *models.Service {
	t.Helper()
	svc := models.Service{
		MentorID: mentorID,
		Title:    "Mock interview",
		Duration: 60,
		Price:    price,
		IsActive: true,
	}
	require.NoError(t, db.Create(&svc).Error)
	return &svc
}

func TestCreateBookingSnapshotsServiceFields(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	client := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)
	svc := createService(t, db, mentor.ID, 150)

	m := NewManager(db, &fakeCalendar{})
	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)

	b, err := m.Create(context.Background(), client, svc, start, "looking forward")
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, b.Status)
	assert.Equal(t, 150.0, b.PriceAtBooking)
	assert.Equal(t, start.Add(time.Hour), b.EndTime)

	// A later price change must not leak into the existing booking.
	require.NoError(t, db.Model(svc).Update("price", 999).Error)
	var stored models.Booking
	require.NoError(t, db.First(&stored, b.ID).Error)
	assert.Equal(t, 150.0, stored.PriceAtBooking)
}

func TestCreateBookingTruncatesNote(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	client := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)
	svc := createService(t, db, mentor.ID, 100)

	m := NewManager(db, &fakeCalendar{})
	note := strings.Repeat("абв", 300)

	b, err := m.Create(context.Background(), client, svc, time.Now().Add(48*time.Hour), note)
	require.NoError(t, err)
	assert.Equal(t, models.NoteMaxLen, len([]rune(b.Note)))
}

func TestCreateBookingRejectsInactiveService(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	client := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)
	svc := createService(t, db, mentor.ID, 100)
	svc.IsActive = false

	m := NewManager(db, &fakeCalendar{})
	_, err := m.Create(context.Background(), client, svc, time.Now().Add(48*time.Hour), "")
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestCreateBookingRejectsSecondActiveWithSameMentor(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	other := createProfile(t, db, "Petro", "petro@example.com", "petro", models.RoleMentor)
	client := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)
	svc := createService(t, db, mentor.ID, 100)
	otherSvc := createService(t, db, other.ID, 100)

	m := NewManager(db, &fakeCalendar{})
	ctx := context.Background()

	_, err := m.Create(ctx, client, svc, time.Now().Add(48*time.Hour), "")
	require.NoError(t, err)

	_, err = m.Create(ctx, client, svc, time.Now().Add(96*time.Hour), "")
	assert.ErrorIs(t, err, ErrActiveBookingExists)

	// A different mentor is unaffected by the active booking.
	_, err = m.Create(ctx, client, otherSvc, time.Now().Add(96*time.Hour), "")
	assert.NoError(t, err)
}

func TestCreateBookingRejectsOverlappingSlot(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	first := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)
	second := createProfile(t, db, "Maria", "maria@example.com", "maria", models.RoleClient)
	svc := createService(t, db, mentor.ID, 100)

	cal := &fakeCalendar{}
	m := NewManager(db, cal)
	ctx := context.Background()
	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)

	_, err := m.Create(ctx, first, svc, start, "")
	require.NoError(t, err)

	// Second client hits the same hour, shifted inside the first session.
	_, err = m.Create(ctx, second, svc, start.Add(30*time.Minute), "")
	assert.ErrorIs(t, err, ErrSlotTaken)

	// The rejected attempt must have cleaned up its calendar events.
	assert.Equal(t, []string{"evt-3", "evt-4"}, cal.deleted)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateBookingSameSlotTwoClientsInsertsOnlyOne(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	first := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)
	second := createProfile(t, db, "Maria", "maria@example.com", "maria", models.RoleClient)
	svc := createService(t, db, mentor.ID, 100)

	m := NewManager(db, &fakeCalendar{})
	ctx := context.Background()
	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)

	// Both clients saw the same free slot before either booked it.
	_, err := m.Create(ctx, first, svc, start, "")
	require.NoError(t, err)
	_, err = m.Create(ctx, second, svc, start, "")
	assert.ErrorIs(t, err, ErrSlotTaken)

	var bookings []models.Booking
	require.NoError(t, db.Where("mentor_id = ? AND status = ?", mentor.ID, models.StatusConfirmed).
		Order("start_time").Find(&bookings).Error)
	require.Len(t, bookings, 1)
	for i := 1; i < len(bookings); i++ {
		assert.False(t, bookings[i].StartTime.Before(bookings[i-1].EndTime),
			"confirmed bookings %d and %d overlap", bookings[i-1].ID, bookings[i].ID)
	}
}

func TestCreateBookingSurvivesCalendarFailure(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	client := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)
	svc := createService(t, db, mentor.ID, 100)

	m := NewManager(db, &fakeCalendar{createErr: errors.New("calendar unavailable")})

	b, err := m.Create(context.Background(), client, svc, time.Now().Add(48*time.Hour), "")
	require.NoError(t, err)
	assert.Empty(t, b.GoogleEventID)
	assert.Empty(t, b.ClientGoogleEventID)
}

func TestCancelBookingDeletesRecordAndEvents(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	client := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)
	svc := createService(t, db, mentor.ID, 100)

	cal := &fakeCalendar{}
	m := NewManager(db, cal)
	ctx := context.Background()

	b, err := m.Create(ctx, client, svc, time.Now().Add(48*time.Hour), "")
	require.NoError(t, err)

	require.NoError(t, m.Cancel(ctx, client, b.ID))

	assert.ElementsMatch(t, []string{b.GoogleEventID, b.ClientGoogleEventID}, cal.deleted)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCancelBookingEventFailureStillDeletesRecord(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	client := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)
	svc := createService(t, db, mentor.ID, 100)

	cal := &fakeCalendar{}
	m := NewManager(db, cal)
	ctx := context.Background()

	b, err := m.Create(ctx, client, svc, time.Now().Add(48*time.Hour), "")
	require.NoError(t, err)

	cal.deleteErr = errors.New("calendar unavailable")
	require.NoError(t, m.Cancel(ctx, client, b.ID))

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCancelBookingRejectsPastStart(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	client := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)

	b := models.Booking{
		ClientID:  client.ID,
		MentorID:  mentor.ID,
		StartTime: time.Now().Add(-2 * time.Hour),
		EndTime:   time.Now().Add(-1 * time.Hour),
		Status:    models.StatusConfirmed,
	}
	require.NoError(t, db.Create(&b).Error)

	m := NewManager(db, &fakeCalendar{})
	err := m.Cancel(context.Background(), client, b.ID)
	assert.ErrorIs(t, err, ErrPastBooking)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCancelBookingOfAnotherClient(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	client := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)
	stranger := createProfile(t, db, "Maria", "maria@example.com", "maria", models.RoleClient)
	svc := createService(t, db, mentor.ID, 100)

	m := NewManager(db, &fakeCalendar{})
	ctx := context.Background()

	b, err := m.Create(ctx, client, svc, time.Now().Add(48*time.Hour), "")
	require.NoError(t, err)

	err = m.Cancel(ctx, stranger, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepExpired(t *testing.T) {
	db := setupDB(t)
	mentor := createProfile(t, db, "Olena", "olena@example.com", "olena", models.RoleMentor)
	client := createProfile(t, db, "Ivan", "ivan@example.com", "ivan", models.RoleClient)

	past := models.Booking{
		ClientID:  client.ID,
		MentorID:  mentor.ID,
		StartTime: time.Now().Add(-3 * time.Hour),
		EndTime:   time.Now().Add(-2 * time.Hour),
		Status:    models.StatusConfirmed,
	}
	future := models.Booking{
		ClientID:  client.ID,
		MentorID:  mentor.ID,
		StartTime: time.Now().Add(2 * time.Hour),
		EndTime:   time.Now().Add(3 * time.Hour),
		Status:    models.StatusConfirmed,
	}
	require.NoError(t, db.Create(&past).Error)
	require.NoError(t, db.Create(&future).Error)

	m := NewManager(db, &fakeCalendar{})
	require.NoError(t, m.SweepExpired())

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, past.ID).Error)
	assert.Equal(t, models.StatusCompleted, reloaded.Status)

	require.NoError(t, db.First(&reloaded, future.ID).Error)
	assert.Equal(t, models.StatusConfirmed, reloaded.Status)
}
