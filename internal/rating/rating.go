package rating

import (
	"context"

	"github.com/kieulqd/OJ/internal/contest"
	"github.com/kieulqd/OJ/internal/util/timeutil"
)

// Rating is one user's rating change from one rated contest. Rating records
// form a cumulative history: each one depends on the records of every rated
// contest that ended before it.
type Rating struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          string `gorm:"index:idx_rating_user_contest,unique"`
	ContestKey      string `gorm:"index:idx_rating_user_contest,unique"`
	ParticipationID string

	Rank        int
	Rating      int
	Mean        float64
	Performance float64
	LastRated   timeutil.UTCTime `gorm:"index"`
}

// Engine computes rating records for a finished rated contest. The rating
// algorithm is external to this core; only its invocation order matters here.
type Engine interface {
	RateContest(ctx context.Context, c *contest.Contest) ([]Rating, error)
}
