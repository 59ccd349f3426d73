package database

import (
	"github.com/kieulqd/OJ/internal/contest"
	"github.com/kieulqd/OJ/internal/profile"
	"github.com/kieulqd/OJ/internal/rating"
)

var models = []any{
	&contest.Contest{},
	&contest.Participation{},
	&contest.ContestSubmission{},
	&contest.Tag{},
	&profile.User{},
	&rating.Rating{},
}
