package contest

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/kieulqd/OJ/internal/util/clone"
	"github.com/kieulqd/OJ/internal/util/timeutil"
)

const (
	KeyMaxLen  = 32
	NameMaxLen = 100
)

type ScoreboardVisibility int

const (
	ScoreboardVisible ScoreboardVisibility = iota
	ScoreboardHidden
	ScoreboardAfterContest
	ScoreboardAfterParticipation
)

func (v ScoreboardVisibility) String() string {
	switch v {
	case ScoreboardVisible:
		return "visible"
	case ScoreboardHidden:
		return "hidden"
	case ScoreboardAfterContest:
		return "after-contest"
	case ScoreboardAfterParticipation:
		return "after-participation"
	default:
		return "?"
	}
}

func (v ScoreboardVisibility) PrettyString() string {
	switch v {
	case ScoreboardVisible:
		return "Visible"
	case ScoreboardHidden:
		return "Always hidden"
	case ScoreboardAfterContest:
		return "Hidden for duration of contest"
	case ScoreboardAfterParticipation:
		return "Hidden for duration of participation"
	default:
		return "?"
	}
}

// Contest is an in-memory snapshot of a contest's configuration. All the
// evaluation methods are pure: they take an explicit now and never touch the
// wall clock, so a single captured now threads through one whole decision.
type Contest struct {
	Key  string `gorm:"primaryKey"`
	Name string `gorm:"index"`

	// Authors and Curators can edit the contest; curators are not publicly
	// credited. Testers can view the contest before it starts but not edit it.
	Authors  []string `gorm:"serializer:json"`
	Curators []string `gorm:"serializer:json"`
	Testers  []string `gorm:"serializer:json"`

	StartTime         timeutil.UTCTime `gorm:"index"`
	EndTime           timeutil.UTCTime `gorm:"index"`
	RegistrationStart *timeutil.UTCTime
	RegistrationEnd   *timeutil.UTCTime
	TimeLimit         *time.Duration
	FrozenLastMinutes int

	IsVisible        bool
	IsRated          bool
	RateAll          bool
	RateDisqualified bool

	ScoreboardVisibility   ScoreboardVisibility
	ShowSubmissionList     bool
	ViewScoreboardGrantees []string `gorm:"serializer:json"`

	IsPrivate             bool
	PrivateContestants    []string `gorm:"serializer:json"`
	IsOrganizationPrivate bool
	Organizations         []string `gorm:"serializer:json"`

	BannedUsers []string `gorm:"serializer:json"`

	AccessCode      string
	DisallowVirtual bool
	LockedAfter     *timeutil.UTCTime
	PointsPrecision int

	FormatName         string
	FormatConfig       json.RawMessage
	ProblemLabelScript string

	Tags []string `gorm:"serializer:json"`
}

func (c Contest) Clone() Contest {
	c.Authors = clone.TrivialSlice(c.Authors)
	c.Curators = clone.TrivialSlice(c.Curators)
	c.Testers = clone.TrivialSlice(c.Testers)
	c.RegistrationStart = clone.TrivialPtr(c.RegistrationStart)
	c.RegistrationEnd = clone.TrivialPtr(c.RegistrationEnd)
	c.TimeLimit = clone.TrivialPtr(c.TimeLimit)
	c.ViewScoreboardGrantees = clone.TrivialSlice(c.ViewScoreboardGrantees)
	c.PrivateContestants = clone.TrivialSlice(c.PrivateContestants)
	c.Organizations = clone.TrivialSlice(c.Organizations)
	c.BannedUsers = clone.TrivialSlice(c.BannedUsers)
	c.LockedAfter = clone.TrivialPtr(c.LockedAfter)
	c.FormatConfig = clone.TrivialSlice(c.FormatConfig)
	c.Tags = clone.TrivialSlice(c.Tags)
	return c
}

func (c *Contest) AuthorIDs() []string {
	return clone.TrivialSlice(c.Authors)
}

// EditorIDs is the union of authors and curators. It is a derived read-only
// projection, recomputed from the current role assignments.
func (c *Contest) EditorIDs() []string {
	res := clone.TrivialSlice(c.Authors)
	for _, id := range c.Curators {
		if !slices.Contains(res, id) {
			res = append(res, id)
		}
	}
	return res
}

func (c *Contest) TesterIDs() []string {
	return clone.TrivialSlice(c.Testers)
}

func (c *Contest) IsEditor(userID string) bool {
	return slices.Contains(c.Authors, userID) || slices.Contains(c.Curators, userID)
}

func (c *Contest) IsTester(userID string) bool {
	return slices.Contains(c.Testers, userID)
}

func (c *Contest) HasScoreboardGrant(userID string) bool {
	return slices.Contains(c.ViewScoreboardGrantees, userID)
}
