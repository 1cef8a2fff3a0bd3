package birthday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	tests := []struct {
		name  string
		dob   time.Time
		today time.Time
		want  int
	}{
		{"before anniversary", d(2000, 3, 1), d(2024, 2, 29), 23},
		{"on anniversary", d(2000, 3, 1), d(2024, 3, 1), 24},
		{"after anniversary", d(1990, 1, 1), d(2025, 6, 15), 35},
		{"year boundary eve", d(1990, 1, 1), d(2024, 12, 31), 34},
		{"many decades", d(1901, 12, 31), d(2024, 12, 30), 122},
		{"born today", d(2024, 5, 5), d(2024, 5, 5), 0},
		{"leapling in non-leap year on 28 Feb", d(2000, 2, 29), d(2023, 2, 28), 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.dob, tt.today))
		})
	}
}

func TestAge_DropsByOneAcrossAnniversary(t *testing.T) {
	dobs := []time.Time{d(1985, 1, 1), d(1999, 7, 14), d(2001, 12, 31), d(1950, 3, 1)}
	for _, dob := range dobs {
		for year := 2020; year <= 2030; year++ {
			anniversary := time.Date(year, dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
			assert.Equal(t, Age(dob, anniversary)-1, Age(dob, anniversary.AddDate(0, 0, -1)), "dob %s year %d", dob, year)
		}
	}
}

func TestNextBirthday(t *testing.T) {
	tests := []struct {
		name  string
		dob   time.Time
		today time.Time
		want  time.Time
	}{
		{"later this year", d(1990, 12, 31), d(2025, 6, 15), d(2025, 12, 31)},
		{"already passed", d(1990, 1, 1), d(2025, 6, 15), d(2026, 1, 1)},
		{"today", d(1990, 6, 15), d(2025, 6, 15), d(2025, 6, 15)},
		{"tomorrow across leap day", d(2000, 3, 1), d(2024, 2, 29), d(2024, 3, 1)},
		{"leapling in leap year", d(2000, 2, 29), d(2024, 1, 1), d(2024, 2, 29)},
		{"leapling in non-leap year", d(2000, 2, 29), d(2025, 1, 10), d(2025, 2, 28)},
		{"leapling on substitute day", d(2000, 2, 29), d(2025, 2, 28), d(2025, 2, 28)},
		{"leapling rolls into leap year", d(2000, 2, 29), d(2023, 3, 1), d(2024, 2, 29)},
		{"leapling rolls into non-leap year", d(2000, 2, 29), d(2024, 3, 1), d(2025, 2, 28)},
		{"new year's eve", d(1980, 1, 1), d(2024, 12, 31), d(2025, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextBirthday(tt.dob, tt.today))
		})
	}
}

func TestNextBirthday_NeverBeforeToday(t *testing.T) {
	calc := Calculator{}
	dobs := []time.Time{d(2000, 2, 29), d(1996, 2, 28), d(1970, 3, 1), d(1988, 12, 31), d(2010, 1, 1)}
	start := d(2022, 12, 25)
	for i := 0; i < 3*366; i++ {
		today := start.AddDate(0, 0, i)
		for _, dob := range dobs {
			facts := calc.Compute(dob, today)
			require.False(t, facts.NextBirthday.Before(today), "dob %s today %s", dob, today)
			require.GreaterOrEqual(t, facts.DaysUntil, 0)
			require.Less(t, facts.DaysUntil, 366)

			isBirthday := facts.NextBirthday.Equal(today)
			assert.Equal(t, isBirthday, facts.DaysUntil == 0)

			if dob.Month() == time.February && dob.Day() == 29 && !IsLeapYear(facts.NextBirthday.Year()) {
				assert.Equal(t, time.February, facts.NextBirthday.Month())
				assert.Equal(t, 28, facts.NextBirthday.Day())
			}
		}
	}
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 0, DaysUntil(d(2024, 5, 5), d(2024, 5, 5)))
	assert.Equal(t, 1, DaysUntil(d(2024, 3, 1), d(2024, 2, 29)))
	assert.Equal(t, 365, DaysUntil(d(2025, 3, 1), d(2024, 3, 1)))
	// Wall-clock times on either side are ignored.
	assert.Equal(t, 2, DaysUntil(time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 5, 23, 59, 0, 0, time.UTC)))
}

func TestIsReminderDue(t *testing.T) {
	calc := Calculator{}
	assert.False(t, calc.IsReminderDue(-1))
	assert.True(t, calc.IsReminderDue(0))
	assert.True(t, calc.IsReminderDue(1))
	assert.True(t, calc.IsReminderDue(2))
	assert.False(t, calc.IsReminderDue(3))

	wide := NewCalculator(7)
	assert.True(t, wide.IsReminderDue(7))
	assert.False(t, wide.IsReminderDue(8))

	assert.Equal(t, DefaultReminderThreshold, NewCalculator(-5).ReminderThreshold())
	assert.Equal(t, 0, NewCalculator(0).ReminderThreshold())
}

func TestCompute_Scenario(t *testing.T) {
	facts := Calculator{}.Compute(d(2000, 3, 1), d(2024, 2, 29))

	assert.Equal(t, Facts{
		Age:           23,
		NextBirthday:  d(2024, 3, 1),
		DaysUntil:     1,
		IsReminderDue: true,
	}, facts)
}

func TestEnrich(t *testing.T) {
	notes := "loves hiking"
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	f := entity.Friend{
		ID:          "f-1",
		UserID:      "u-1",
		Name:        "Ada",
		DateOfBirth: d(2000, 3, 1),
		Notes:       &notes,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	original := f

	got := Calculator{}.Enrich(f, d(2024, 2, 29))

	assert.Equal(t, original, f, "input must not change")
	assert.Equal(t, entity.FriendWithFacts{
		ID:                "f-1",
		UserID:            "u-1",
		Name:              "Ada",
		DateOfBirth:       "2000-03-01",
		Notes:             &notes,
		CreatedAt:         created,
		UpdatedAt:         created,
		Age:               23,
		NextBirthday:      "2024-03-01",
		DaysUntilBirthday: 1,
		IsReminderDue:     true,
	}, got)
}

func TestEnrich_RoundTripThroughString(t *testing.T) {
	calc := NewCalculator(DefaultReminderThreshold)
	today := d(2023, 3, 1)
	for _, dob := range []time.Time{d(2000, 2, 29), d(1999, 3, 1), d(1950, 12, 31), d(2023, 3, 1)} {
		enriched := calc.Enrich(entity.Friend{DateOfBirth: dob}, today)

		fromString, err := calc.FactsFor(enriched.DateOfBirth, today)
		require.NoError(t, err)
		assert.Equal(t, calc.Compute(dob, today), fromString)
	}
}

func TestFactsFor_Malformed(t *testing.T) {
	_, err := Calculator{}.FactsFor("2023-02-30", d(2024, 1, 1))
	assert.Error(t, err)
}

func TestToday(t *testing.T) {
	// 23:30 UTC on 14 June is already 15 June in Tokyo.
	clock := FixedClock(time.Date(2025, 6, 14, 23, 30, 0, 0, time.UTC))
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	assert.Equal(t, d(2025, 6, 14), Today(clock, nil))
	assert.Equal(t, d(2025, 6, 15), Today(clock, tokyo))
}
