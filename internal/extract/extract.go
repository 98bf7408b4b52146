// Package extract turns free-form reminder text into a structured draft: a
// calendar date found anywhere in the text, a keyword-based category and a
// description with the date's rendered form removed.
package extract

import (
	"errors"
	"strings"
	"time"

	"github.com/antoniostano/reminders/internal/reminders"
)

// ErrNoDateFound is the only extraction failure; classification never fails.
var ErrNoDateFound = errors.New("no date expression found")

// DescriptionLayout is the human-readable rendering stripped from the input
// when deriving a description (full month, zero-padded day, year).
const DescriptionLayout = "January 02 2006"

// Draft is an unvalidated, not yet persisted reminder candidate.
type Draft struct {
	Category    reminders.Category
	Description string
	Date        string
}

func (d Draft) Reminder() reminders.Reminder {
	return reminders.Reminder{Category: d.Category, Description: d.Description, Date: d.Date}
}

type Extractor struct {
	now func() time.Time
}

func New() *Extractor {
	return &Extractor{now: time.Now}
}

// NewWithClock pins "now" for date resolution.
func NewWithClock(now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{now: now}
}

func (e *Extractor) Extract(text string) (Draft, error) {
	match, ok := findDate(text, e.now())
	if !ok {
		return Draft{}, ErrNoDateFound
	}
	return Draft{
		Category:    Classify(text),
		Description: Describe(text, match.day),
		Date:        match.day.Format(reminders.DateLayout),
	}, nil
}

var (
	birthdayKeywords = []string{"birthday"}
	medicalKeywords  = []string{"doctor", "visit"}
	paymentKeywords  = []string{"pay", "payment", "due"}
)

// Classify picks a category by case-insensitive substring match; the first
// keyword set that matches wins.
func Classify(text string) reminders.Category {
	in := strings.ToLower(text)
	switch {
	case containsAny(in, birthdayKeywords):
		return reminders.CategoryBirthday
	case containsAny(in, medicalKeywords):
		return reminders.CategoryMedical
	case containsAny(in, paymentKeywords):
		return reminders.CategoryPayment
	default:
		return reminders.CategoryGeneral
	}
}

func containsAny(in string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(in, kw) {
			return true
		}
	}
	return false
}

// Describe removes the first literal, case-sensitive occurrence of day
// rendered in DescriptionLayout and trims the result. Dates phrased any
// other way stay in the description.
func Describe(text string, day time.Time) string {
	rendered := day.Format(DescriptionLayout)
	return strings.TrimSpace(strings.Replace(text, rendered, "", 1))
}
