package contest

import (
	"encoding/json"
	"time"

	"github.com/kieulqd/OJ/internal/util/clone"
	"github.com/kieulqd/OJ/internal/util/timeutil"
)

// Virtual participation markers. Positive values are the n-th virtual
// participation.
const (
	VirtualLive     = 0
	VirtualSpectate = -1
)

// DisqualifiedScore is forced into Score when a participation is
// disqualified, pushing it to the bottom of every ranking.
const DisqualifiedScore = -9999

// Participation is one user's run in one contest. The (ContestKey, UserID,
// Virtual) triple is unique: a user has at most one live, one spectate, and
// one participation per virtual index.
type Participation struct {
	ID         string `gorm:"primaryKey"`
	ContestKey string `gorm:"index:idx_contest_user_virtual,unique"`
	UserID     string `gorm:"index:idx_contest_user_virtual,unique"`
	Virtual    int    `gorm:"index:idx_contest_user_virtual,unique"`

	// RealStart set to the pre-registration sentinel means the user has
	// registered but not begun yet.
	RealStart timeutil.UTCTime

	Score      float64 `gorm:"index"`
	CumTime    int64
	Tiebreaker float64

	// Frozen* mirror the live values, snapshotted at the freeze boundary.
	FrozenScore      float64 `gorm:"index"`
	FrozenCumTime    int64
	FrozenTiebreaker float64

	IsDisqualified bool

	FormatData json.RawMessage
}

func (p Participation) Clone() Participation {
	p.FormatData = clone.TrivialSlice(p.FormatData)
	return p
}

func (p *Participation) IsLive() bool {
	return p.Virtual == VirtualLive
}

func (p *Participation) IsSpectate() bool {
	return p.Virtual == VirtualSpectate
}

// PreRegisteredStart is the sentinel marking a participation that was created
// at registration time, before the user actually began. Any real start
// falling on this exact date is indistinguishable from the sentinel and must
// never occur in practice; this is a documented constraint, not enforced.
var PreRegisteredStart = timeutil.UTCTime(time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC))

func (p *Participation) PreRegistered() bool {
	y, m, d := p.RealStart.UTC().Date()
	return y == 1970 && m == time.January && d == 1
}

// Start is the effective start instant of this participation.
func (p *Participation) Start(c *Contest) timeutil.UTCTime {
	if c.TimeLimit == nil && (p.IsLive() || p.IsSpectate()) {
		return c.StartTime
	}
	return p.RealStart
}

// EndTime is the effective end instant of this participation. Virtual
// participations run on their own clock and may end after the contest itself.
func (p *Participation) EndTime(c *Contest) timeutil.UTCTime {
	if p.IsSpectate() {
		return c.EndTime
	}
	if p.Virtual > 0 {
		if c.TimeLimit != nil {
			return p.RealStart.Add(*c.TimeLimit)
		}
		return p.RealStart.Add(c.WindowLength())
	}
	if p.PreRegistered() {
		return c.EndTime
	}
	if c.TimeLimit == nil {
		return c.EndTime
	}
	return timeutil.Min(p.RealStart.Add(*c.TimeLimit), c.EndTime)
}

func (p *Participation) Ended(c *Contest, now timeutil.UTCTime) bool {
	return p.EndTime(c).Before(now)
}

func (p *Participation) TimeRemaining(c *Contest, now timeutil.UTCTime) *time.Duration {
	end := p.EndTime(c)
	if end.Compare(now) >= 0 {
		d := end.Sub(now)
		return &d
	}
	return nil
}

// ContestSubmission links a judged submission to a participation. Judging
// itself is external; formats consume these records to recompute results.
type ContestSubmission struct {
	ID              string `gorm:"primaryKey"`
	ParticipationID string `gorm:"index"`
	Problem         string
	Points          float64
	SubmittedAt     timeutil.UTCTime
	IsPretest       bool
}
