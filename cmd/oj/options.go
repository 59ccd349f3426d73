package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kieulqd/OJ/internal/contest"
	"github.com/kieulqd/OJ/internal/database"
	"github.com/kieulqd/OJ/internal/lifecycle"
	"github.com/kieulqd/OJ/internal/util/timeutil"
)

type Options struct {
	DB        database.Options  `toml:"db"`
	Lifecycle lifecycle.Options `toml:"lifecycle"`
}

func (o *Options) FillDefaults() {
	o.DB.FillDefaults()
	o.Lifecycle.FillDefaults()
}

// contestFile is the on-disk TOML shape of a contest definition, converted
// into a contest.Contest before validation or saving.
type contestFile struct {
	Key  string `toml:"key"`
	Name string `toml:"name"`

	Authors  []string `toml:"authors"`
	Curators []string `toml:"curators"`
	Testers  []string `toml:"testers"`

	StartTime         time.Time  `toml:"start-time"`
	EndTime           time.Time  `toml:"end-time"`
	RegistrationStart *time.Time `toml:"registration-start"`
	RegistrationEnd   *time.Time `toml:"registration-end"`
	TimeLimit         string     `toml:"time-limit"`
	FrozenLastMinutes int        `toml:"frozen-last-minutes"`

	IsVisible        bool `toml:"is-visible"`
	IsRated          bool `toml:"is-rated"`
	RateAll          bool `toml:"rate-all"`
	RateDisqualified bool `toml:"rate-disqualified"`

	ScoreboardVisibility   string   `toml:"scoreboard-visibility"`
	ShowSubmissionList     bool     `toml:"show-submission-list"`
	ViewScoreboardGrantees []string `toml:"view-scoreboard-grantees"`

	IsPrivate             bool     `toml:"is-private"`
	PrivateContestants    []string `toml:"private-contestants"`
	IsOrganizationPrivate bool     `toml:"is-organization-private"`
	Organizations         []string `toml:"organizations"`

	AccessCode      string `toml:"access-code"`
	DisallowVirtual bool   `toml:"disallow-virtual"`
	PointsPrecision int    `toml:"points-precision"`

	Format             string `toml:"format"`
	FormatConfig       string `toml:"format-config"`
	ProblemLabelScript string `toml:"problem-label-script"`

	Tags []string `toml:"tags"`
}

func parseScoreboardVisibility(s string) (contest.ScoreboardVisibility, error) {
	switch s {
	case "", "visible":
		return contest.ScoreboardVisible, nil
	case "hidden":
		return contest.ScoreboardHidden, nil
	case "after-contest":
		return contest.ScoreboardAfterContest, nil
	case "after-participation":
		return contest.ScoreboardAfterParticipation, nil
	default:
		return 0, fmt.Errorf("bad scoreboard visibility %q", s)
	}
}

func (f *contestFile) Contest() (contest.Contest, error) {
	vis, err := parseScoreboardVisibility(f.ScoreboardVisibility)
	if err != nil {
		return contest.Contest{}, err
	}

	var timeLimit *time.Duration
	if f.TimeLimit != "" {
		d, err := time.ParseDuration(f.TimeLimit)
		if err != nil {
			return contest.Contest{}, fmt.Errorf("bad time limit: %w", err)
		}
		timeLimit = &d
	}

	var regStart, regEnd *timeutil.UTCTime
	if f.RegistrationStart != nil {
		t := timeutil.UTCTime(f.RegistrationStart.UTC())
		regStart = &t
	}
	if f.RegistrationEnd != nil {
		t := timeutil.UTCTime(f.RegistrationEnd.UTC())
		regEnd = &t
	}

	formatName := f.Format
	if formatName == "" {
		formatName = "default"
	}

	var formatConfig json.RawMessage
	if f.FormatConfig != "" {
		formatConfig = json.RawMessage(f.FormatConfig)
	}

	return contest.Contest{
		Key:                    f.Key,
		Name:                   f.Name,
		Authors:                f.Authors,
		Curators:               f.Curators,
		Testers:                f.Testers,
		StartTime:              timeutil.UTCTime(f.StartTime.UTC()),
		EndTime:                timeutil.UTCTime(f.EndTime.UTC()),
		RegistrationStart:      regStart,
		RegistrationEnd:        regEnd,
		TimeLimit:              timeLimit,
		FrozenLastMinutes:      f.FrozenLastMinutes,
		IsVisible:              f.IsVisible,
		IsRated:                f.IsRated,
		RateAll:                f.RateAll,
		RateDisqualified:       f.RateDisqualified,
		ScoreboardVisibility:   vis,
		ShowSubmissionList:     f.ShowSubmissionList,
		ViewScoreboardGrantees: f.ViewScoreboardGrantees,
		IsPrivate:              f.IsPrivate,
		PrivateContestants:     f.PrivateContestants,
		IsOrganizationPrivate:  f.IsOrganizationPrivate,
		Organizations:          f.Organizations,
		AccessCode:             f.AccessCode,
		DisallowVirtual:        f.DisallowVirtual,
		PointsPrecision:        f.PointsPrecision,
		FormatName:             formatName,
		FormatConfig:           formatConfig,
		ProblemLabelScript:     f.ProblemLabelScript,
		Tags:                   f.Tags,
	}, nil
}
