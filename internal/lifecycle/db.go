package lifecycle

import (
	"context"
	"errors"

	"github.com/kieulqd/OJ/internal/contest"
	"github.com/kieulqd/OJ/internal/profile"
	"github.com/kieulqd/OJ/internal/rating"
	"github.com/kieulqd/OJ/internal/util/timeutil"
)

var (
	ErrNoSuchContest       = errors.New("no such contest")
	ErrNoSuchParticipation = errors.New("no such participation")
)

// DB is the storage surface the lifecycle manager needs. Transaction runs fn
// against a transactional view; everything fn does commits or rolls back as
// one unit, which is what keeps disqualification and the rating cascade
// atomic.
type DB interface {
	Transaction(ctx context.Context, fn func(tx DB) error) error

	GetContest(ctx context.Context, key string) (contest.Contest, error)
	UpdateContest(ctx context.Context, c contest.Contest) error
	// ListRatedContestsEndingBetween returns rated contests with end time in
	// [from, to], in ascending end-time order.
	ListRatedContestsEndingBetween(ctx context.Context, from, to timeutil.UTCTime) ([]contest.Contest, error)

	GetParticipation(ctx context.Context, id string) (contest.Participation, error)
	UpdateParticipation(ctx context.Context, p contest.Participation) error
	ListSubmissions(ctx context.Context, participationID string) ([]contest.ContestSubmission, error)
	// CountDisqualifications counts the user's disqualified participations
	// across all non-organization-private contests.
	CountDisqualifications(ctx context.Context, userID string) (int64, error)

	HasRatings(ctx context.Context, contestKey string) (bool, error)
	DeleteRatingsEndingBetween(ctx context.Context, from, to timeutil.UTCTime) error
	SaveRatings(ctx context.Context, ratings []rating.Rating) error

	GetUser(ctx context.Context, userID string) (profile.User, error)
	UpdateUser(ctx context.Context, user profile.User) error
}
