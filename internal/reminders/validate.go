package reminders

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidReminder = errors.New("invalid reminder")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the persisted-record invariants: a well-formed date and
// one of the enumerated categories.
func Validate(r Reminder) error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed %q (value %q)", ErrInvalidReminder, fe.Field(), fe.Tag(), fmt.Sprint(fe.Value()))
		}
		return fmt.Errorf("%w: %v", ErrInvalidReminder, err)
	}
	return nil
}

// ValidateAll validates every reminder and reports the first failure with its index.
func ValidateAll(all []Reminder) error {
	for i, r := range all {
		if err := Validate(r); err != nil {
			return fmt.Errorf("reminder %d: %w", i, err)
		}
	}
	return nil
}
