package contest

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var keyRegexp = regexp.MustCompile(`^[a-z0-9_]+$`)

// Validate checks a contest configuration at creation or edit time.
// Evaluation methods assume a previously validated contest and never fail on
// configuration errors.
func (c *Contest) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("no contest key")
	}
	if len(c.Key) > KeyMaxLen {
		return fmt.Errorf("contest key exceeds %v characters", KeyMaxLen)
	}
	if !keyRegexp.MatchString(c.Key) {
		return fmt.Errorf("contest key must match ^[a-z0-9_]+$")
	}
	if c.Name == "" {
		return fmt.Errorf("no contest name")
	}
	if utf8.RuneCountInString(c.Name) > NameMaxLen {
		return fmt.Errorf("contest name exceeds %v runes", NameMaxLen)
	}

	if c.StartTime.Compare(c.EndTime) >= 0 {
		return fmt.Errorf("what is this? a contest that ended before it starts?")
	}
	if c.RegistrationStart != nil && c.RegistrationEnd != nil &&
		c.RegistrationStart.Compare(*c.RegistrationEnd) >= 0 {
		return fmt.Errorf("registration window must start before it ends")
	}
	if c.RegistrationStart != nil && c.RegistrationStart.Compare(c.StartTime) >= 0 {
		return fmt.Errorf("registration window must start before the contest starts")
	}
	if c.RegistrationEnd != nil && c.RegistrationEnd.Compare(c.EndTime) >= 0 {
		return fmt.Errorf("registration window must end before the contest ends")
	}

	if c.TimeLimit != nil && *c.TimeLimit <= 0 {
		return fmt.Errorf("non-positive time limit")
	}
	if c.FrozenLastMinutes < 0 {
		return fmt.Errorf("negative frozen last minutes")
	}
	if c.FrozenLastMinutes != 0 && !c.FormatKind().SupportsFrozen() {
		return fmt.Errorf("frozen scoreboard is only available for the %v and %v formats",
			FormatICPC, FormatVNOJ)
	}
	if c.PointsPrecision < 0 || c.PointsPrecision > 10 {
		return fmt.Errorf("points precision must be from 0 to 10")
	}

	if err := validateFormatConfig(c.FormatName, c.FormatConfig); err != nil {
		return err
	}

	if c.ProblemLabelScript != "" {
		// A contest has at least one problem with index 0, so probe the
		// script with it.
		if err := ValidateLabelScript(c.ProblemLabelScript); err != nil {
			return fmt.Errorf("contest problem label script: %w", err)
		}
	}
	return nil
}
