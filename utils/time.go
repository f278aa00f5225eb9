package utils

import (
	"sync"
	"time"
)

var (
	locOnce sync.Once
	loc     *time.Location
)

// AppLocation returns the civil timezone the whole application schedules in.
// All slot math and every interval crossing the calendar boundary is
// expressed in this location.
func AppLocation() *time.Location {
	locOnce.Do(func() {
		var err error
		loc, err = time.LoadLocation("Europe/Kyiv")
		if err != nil {
			loc = time.UTC // fallback if tzdata is unavailable
		}
	})
	return loc
}
