package contest

import (
	"time"

	"github.com/kieulqd/OJ/internal/util/timeutil"
)

type Phase int

const (
	PhaseBeforeRegistration Phase = iota
	PhaseRegistrationOpen
	PhaseWaitingToStart
	PhaseRunning
	PhaseFrozen
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseBeforeRegistration:
		return "before-registration"
	case PhaseRegistrationOpen:
		return "registration-open"
	case PhaseWaitingToStart:
		return "waiting-to-start"
	case PhaseRunning:
		return "running"
	case PhaseFrozen:
		return "frozen"
	case PhaseEnded:
		return "ended"
	default:
		return "?"
	}
}

func (c *Contest) RequireRegistration() bool {
	return c.RegistrationStart != nil || c.RegistrationEnd != nil
}

func (c *Contest) CanRegister(now timeutil.UTCTime) bool {
	if !c.RequireRegistration() {
		return false
	}
	if c.RegistrationStart != nil && now.Before(*c.RegistrationStart) {
		return false
	}
	if c.RegistrationEnd != nil && now.After(*c.RegistrationEnd) {
		return false
	}
	return true
}

func (c *Contest) CanJoin(now timeutil.UTCTime) bool {
	return c.StartTime.Compare(now) <= 0
}

func (c *Contest) Ended(now timeutil.UTCTime) bool {
	return c.EndTime.Before(now)
}

func (c *Contest) WindowLength() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

func (c *Contest) FrozenTime() timeutil.UTCTime {
	// No need to check FrozenLastMinutes != 0 here, IsFrozen does that.
	return c.EndTime.Add(-time.Duration(c.FrozenLastMinutes) * time.Minute)
}

// IsFrozen reports whether the scoreboard holds the frozen snapshot. Freeze
// state survives past contest end, unlike the running phase.
func (c *Contest) IsFrozen(now timeutil.UTCTime) bool {
	if c.FrozenLastMinutes == 0 {
		return false
	}
	if !c.FormatKind().SupportsFrozen() {
		return false
	}
	return now.Compare(c.FrozenTime()) >= 0
}

// ShowScoreboard decides scoreboard visibility from the contest configuration
// alone. ScoreboardAfterParticipation additionally requires a per-user
// completion check, resolved in CanSeeFullScoreboard.
func (c *Contest) ShowScoreboard(now timeutil.UTCTime) bool {
	if c.ScoreboardVisibility == ScoreboardHidden {
		return false
	}
	if !c.CanJoin(now) {
		return false
	}
	if (c.ScoreboardVisibility == ScoreboardAfterContest ||
		c.ScoreboardVisibility == ScoreboardAfterParticipation) && !c.Ended(now) {
		return false
	}
	return true
}

func (c *Contest) Phase(now timeutil.UTCTime) Phase {
	if c.Ended(now) {
		return PhaseEnded
	}
	if c.CanJoin(now) {
		if c.IsFrozen(now) {
			return PhaseFrozen
		}
		return PhaseRunning
	}
	if c.CanRegister(now) {
		return PhaseRegistrationOpen
	}
	if c.RequireRegistration() && c.RegistrationStart != nil && now.Before(*c.RegistrationStart) {
		return PhaseBeforeRegistration
	}
	return PhaseWaitingToStart
}

func (c *Contest) TimeBeforeRegister(now timeutil.UTCTime) *time.Duration {
	if c.RegistrationStart != nil && now.Compare(*c.RegistrationStart) <= 0 {
		d := c.RegistrationStart.Sub(now)
		return &d
	}
	return nil
}

func (c *Contest) TimeBeforeStart(now timeutil.UTCTime) *time.Duration {
	if c.StartTime.Compare(now) >= 0 {
		d := c.StartTime.Sub(now)
		return &d
	}
	return nil
}

func (c *Contest) TimeBeforeEnd(now timeutil.UTCTime) *time.Duration {
	if c.EndTime.Compare(now) >= 0 {
		d := c.EndTime.Sub(now)
		return &d
	}
	return nil
}
