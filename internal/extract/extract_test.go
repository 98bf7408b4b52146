package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniostano/reminders/internal/reminders"
)

// Wednesday, 2025-03-05 15:30 UTC.
var refNow = time.Date(2025, time.March, 5, 15, 30, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestExtractResolvesDates(t *testing.T) {
	ex := NewWithClock(clockAt(refNow))

	cases := []struct {
		text string
		want string
	}{
		{"Pay rent by next Friday", "2025-03-07"},
		{"Pay rent on the 5th", "2025-03-05"},
		{"Gym class on the 3rd", "2025-04-03"},
		{"Anna's birthday March 05 2027", "2027-03-05"},
		{"Doctor visit March 1", "2026-03-01"},
		{"Dentist visit on 3/20", "2025-03-20"},
		{"Car insurance 1/2/26", "2026-01-02"},
		{"Invoice due 2025-04-01", "2025-04-01"},
		{"Renew passport 2024-01-15", "2024-01-15"},
		{"meeting tomorrow", "2025-03-06"},
		{"day after tomorrow call the bank", "2025-03-07"},
		{"water plants tonight", "2025-03-05"},
		{"in 2 weeks submit report", "2025-03-19"},
		{"renew lease in a month", "2025-04-05"},
		{"in three days", "2025-03-08"},
		{"next week book flights", "2025-03-12"},
		{"next year file taxes early", "2026-03-05"},
		{"standup this Wednesday", "2025-03-05"},
		{"standup next Wednesday", "2025-03-12"},
		{"call Monday", "2025-03-10"},
		{"5th of April trip", "2025-04-05"},
		{"the 1st of March", "2026-03-01"},
		{"party on Dec. 25", "2025-12-25"},
		{"leap day February 29", "2028-02-29"},
		{"tomorrow or March 20", "2025-03-06"},
		{"Send card on July 4th, 2025", "2025-07-04"},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			d, err := ex.Extract(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, d.Date)
		})
	}
}

func TestExtractFailsWithoutDate(t *testing.T) {
	ex := NewWithClock(clockAt(refNow))

	for _, text := range []string{
		"no date here",
		"",
		"remember the milk",
		"February 30 is not a day",
		"open 24/7",
		"pay the 3 invoices",
	} {
		_, err := ex.Extract(text)
		require.ErrorIs(t, err, ErrNoDateFound, "text %q", text)
	}
}

func TestExtractRejectsYearsPastCanonicalRange(t *testing.T) {
	ex := NewWithClock(clockAt(refNow))

	for _, text := range []string{"renew in 9999 years", "renew in 7975 years"} {
		_, err := ex.Extract(text)
		require.ErrorIs(t, err, ErrNoDateFound, "text %q", text)
	}

	d, err := ex.Extract("renew in 7974 years")
	require.NoError(t, err)
	assert.Equal(t, "9999-03-05", d.Date)
}

func TestExtractPayRentNextFridayScenario(t *testing.T) {
	d, err := NewWithClock(clockAt(refNow)).Extract("Pay rent by next Friday")
	require.NoError(t, err)
	assert.Equal(t, reminders.CategoryPayment, d.Category)
	assert.Equal(t, "2025-03-07", d.Date)
	// "March 07 2025" does not occur literally, so nothing is stripped.
	assert.Equal(t, "Pay rent by next Friday", d.Description)
}

func TestExtractFutureBias(t *testing.T) {
	ambiguous := []string{
		"on the 1st", "on the 15th", "on the 31st",
		"January 10", "June 30", "December 31", "3/1",
		"Friday", "this Sunday", "next Monday",
	}
	start := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i += 7 {
		now := start.AddDate(0, 0, i)
		today := now.Format(reminders.DateLayout)
		ex := NewWithClock(clockAt(now))
		for _, text := range ambiguous {
			d, err := ex.Extract(text)
			require.NoError(t, err, "text %q at %s", text, today)
			assert.GreaterOrEqual(t, d.Date, today, "text %q at %s", text, today)
		}
	}
}

func TestExtractOrdinalSkipsShortMonths(t *testing.T) {
	now := time.Date(2025, time.April, 10, 8, 0, 0, 0, time.UTC)
	d, err := NewWithClock(clockAt(now)).Extract("pay card on the 31st")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-31", d.Date)
}

func TestExtractNextMonthClampsDay(t *testing.T) {
	now := time.Date(2025, time.January, 31, 8, 0, 0, 0, time.UTC)
	d, err := NewWithClock(clockAt(now)).Extract("dentist next month")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", d.Date)
}

func TestClassifyPrecedence(t *testing.T) {
	cases := []struct {
		text string
		want reminders.Category
	}{
		{"BIRTHDAY party tomorrow, pay for cake", reminders.CategoryBirthday},
		{"Doctor appointment, pay copay", reminders.CategoryMedical},
		{"visit grandma", reminders.CategoryMedical},
		{"Payment overdue", reminders.CategoryPayment},
		{"library book due", reminders.CategoryPayment},
		{"Pay rent", reminders.CategoryPayment},
		{"water the plants", reminders.CategoryGeneral},
		{"", reminders.CategoryGeneral},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.text), "text %q", tc.text)
	}
}

func TestExtractGeneralWhenNoKeyword(t *testing.T) {
	ex := NewWithClock(clockAt(refNow))
	for _, text := range []string{"call mom tomorrow", "gym on the 9th", "book club March 20", "standup Monday"} {
		d, err := ex.Extract(text)
		require.NoError(t, err)
		assert.Equal(t, reminders.CategoryGeneral, d.Category, "text %q", text)
		assert.NotEmpty(t, d.Date)
	}
}

func TestExtractBirthdayWinsRegardlessOfOtherKeywords(t *testing.T) {
	ex := NewWithClock(clockAt(refNow))
	for _, text := range []string{
		"Birthday dinner, pay the bill, doctor friend visiting, on the 9th",
		"pay for Sam's bIrThDaY gift tomorrow",
	} {
		d, err := ex.Extract(text)
		require.NoError(t, err)
		assert.Equal(t, reminders.CategoryBirthday, d.Category)
	}
}

func TestDescribeStripsLiteralRendering(t *testing.T) {
	ex := NewWithClock(clockAt(refNow))

	d, err := ex.Extract("Call mom on March 05 2027")
	require.NoError(t, err)
	assert.Equal(t, "Call mom on", d.Description)

	d, err = ex.Extract("Pay rent March 07 2025 please")
	require.NoError(t, err)
	assert.Equal(t, "Pay rent  please", d.Description)

	d, err = ex.Extract("  Pay rent March 7  ")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-07", d.Date)
	assert.Equal(t, "Pay rent March 7", d.Description)

	// Matching is case-sensitive.
	d, err = ex.Extract("call march 05 2027")
	require.NoError(t, err)
	assert.Equal(t, "call march 05 2027", d.Description)
}

func TestDraftReminder(t *testing.T) {
	d := Draft{Category: reminders.CategoryMedical, Description: "checkup", Date: "2025-03-10"}
	r := d.Reminder()
	require.NoError(t, reminders.Validate(r))
	assert.Equal(t, reminders.Reminder{Category: reminders.CategoryMedical, Description: "checkup", Date: "2025-03-10"}, r)
}
