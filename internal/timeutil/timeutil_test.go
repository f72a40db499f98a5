package timeutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"homework/internal/timeutil"
)

func TestFormatLocal(t *testing.T) {
	ams := timeutil.LoadDisplayLocation("Europe/Amsterdam")

	// winter: UTC+1
	winter := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-10 10:00", timeutil.FormatLocal(winter, ams))

	// summer: UTC+2
	summer := time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-10 11:00", timeutil.FormatLocal(summer, ams))

	assert.Equal(t, "", timeutil.FormatLocal(time.Time{}, ams))
}

func TestLoadDisplayLocationFallsBackToUTC(t *testing.T) {
	loc := timeutil.LoadDisplayLocation("Mars/Olympus_Mons")
	assert.Equal(t, time.UTC, loc)

	at := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-10 09:00", timeutil.FormatLocal(at, loc))
}
