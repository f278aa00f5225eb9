package gcal

import (
	"context"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mentortyme/backend/models"
	"github.com/mentortyme/backend/utils"
)

// requestTimeout bounds every remote call so a hanging Google API request
// cannot stall booking creation or cancellation.
const requestTimeout = 5 * time.Second

// GoogleClient talks to the Google Calendar v3 API with the user's stored
// OAuth tokens.
type GoogleClient struct{}

func NewGoogleClient() *GoogleClient {
	return &GoogleClient{}
}

// calendarService builds an authorized calendar service for the user, or
// nil when the user has no linked Google account.
func (g *GoogleClient) calendarService(ctx context.Context, user *models.User) (*calendar.Service, error) {
	if user == nil || !user.HasGoogleCalendar() {
		return nil, nil
	}

	conf := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarScope},
	}
	token := &oauth2.Token{
		AccessToken:  user.GoogleAccessToken,
		RefreshToken: user.GoogleRefreshToken,
	}

	return calendar.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, token)))
}

func (g *GoogleClient) FetchBusy(ctx context.Context, user *models.User, date time.Time) ([]BusyPeriod, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	svc, err := g.calendarService(ctx, user)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, nil
	}

	// Midnight to midnight in local time; DST-transition days are not 24h.
	loc := utils.AppLocation()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := time.Date(date.Year(), date.Month(), date.Day()+1, 0, 0, 0, 0, loc)

	resp, err := svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: dayStart.UTC().Format(time.RFC3339),
		TimeMax: dayEnd.UTC().Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: "primary"}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	primary, ok := resp.Calendars["primary"]
	if !ok {
		return nil, nil
	}

	periods := make([]BusyPeriod, 0, len(primary.Busy))
	for _, b := range primary.Busy {
		start, err := time.Parse(time.RFC3339, b.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, b.End)
		if err != nil {
			continue
		}
		periods = append(periods, BusyPeriod{
			Start: start.In(loc),
			End:   end.In(loc),
		})
	}
	return periods, nil
}

func (g *GoogleClient) CreateEvent(ctx context.Context, user *models.User, start time.Time, durationMinutes int, summary, description string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	svc, err := g.calendarService(ctx, user)
	if err != nil {
		return "", err
	}
	if svc == nil {
		return "", nil
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	tz := utils.AppLocation().String()

	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: tz,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: tz,
		},
	}

	created, err := svc.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (g *GoogleClient) DeleteEvent(ctx context.Context, user *models.User, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	svc, err := g.calendarService(ctx, user)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}

	return svc.Events.Delete("primary", eventID).Context(ctx).Do()
}

var _ Client = (*GoogleClient)(nil)
