package reminders

import (
	"strings"
	"time"
)

// DateLayout is the canonical persisted form of a reminder date.
const DateLayout = "2006-01-02"

type Category string

const (
	CategoryBirthday Category = "birthday"
	CategoryMedical  Category = "medical"
	CategoryPayment  Category = "payment"
	CategoryGeneral  Category = "general"
)

// Categories lists every valid category in classification precedence order.
var Categories = []Category{CategoryBirthday, CategoryMedical, CategoryPayment, CategoryGeneral}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Reminder is the only persisted entity. Records are never mutated after
// creation; the Store keeps them in creation order and allows duplicates.
type Reminder struct {
	Category    Category `json:"type" validate:"required,oneof=birthday medical payment general"`
	Description string   `json:"description"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
}

// DueOn reports whether the reminder falls on day (YYYY-MM-DD).
func (r Reminder) DueOn(day string) bool {
	return strings.TrimSpace(r.Date) == day
}

// Day formats t as a local calendar date in DateLayout.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// FilterDue returns the reminders due on day, preserving order.
func FilterDue(all []Reminder, day string) []Reminder {
	out := make([]Reminder, 0)
	for _, r := range all {
		if r.DueOn(day) {
			out = append(out, r)
		}
	}
	return out
}

func cloneAll(in []Reminder) []Reminder {
	out := make([]Reminder, len(in))
	copy(out, in)
	return out
}
