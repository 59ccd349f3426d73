package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/kieulqd/OJ/internal/contest"
	"github.com/kieulqd/OJ/internal/profile"
	"github.com/kieulqd/OJ/internal/rating"
	"github.com/kieulqd/OJ/internal/util/timeutil"
	"golang.org/x/sync/singleflight"
)

type Options struct {
	// BanForCheating enables the site-wide policy of banning users who
	// collect too many contest disqualifications.
	BanForCheating       bool   `toml:"ban-for-cheating"`
	MaxDisqualifications int    `toml:"max-disqualifications"`
	CheatingBanMessage   string `toml:"cheating-ban-message"`
}

func (o *Options) FillDefaults() {
	if o.MaxDisqualifications == 0 {
		o.MaxDisqualifications = 3
	}
	if o.CheatingBanMessage == "" {
		o.CheatingBanMessage = "Banned for cheating in contests"
	}
}

// Manager owns the two mutating entry points of the contest core:
// disqualification and rating. Everything else in the core is a pure read.
type Manager struct {
	log    *slog.Logger
	db     DB
	engine rating.Engine
	o      *Options

	// rateGroup collapses concurrent cascades for the same contest, so at
	// most one is in flight per contest at a time.
	rateGroup singleflight.Group
}

func NewManager(log *slog.Logger, db DB, engine rating.Engine, o Options) *Manager {
	o.FillDefaults()
	return &Manager{
		log:    log,
		db:     db,
		engine: engine,
		o:      &o,
	}
}

// SetDisqualified flips the disqualification flag on a participation,
// recomputes its results, keeps the contest ban list and the user's
// active-contest pointer consistent, re-rates affected contests, and applies
// the site-wide cheating-ban policy. The whole operation is one transaction:
// a crash mid-way leaves prior committed state.
func (m *Manager) SetDisqualified(ctx context.Context, participationID string, disqualified bool, now timeutil.UTCTime) error {
	err := m.db.Transaction(ctx, func(tx DB) error {
		p, err := tx.GetParticipation(ctx, participationID)
		if err != nil {
			return fmt.Errorf("get participation: %w", err)
		}
		c, err := tx.GetContest(ctx, p.ContestKey)
		if err != nil {
			return fmt.Errorf("get contest: %w", err)
		}

		p.IsDisqualified = disqualified
		if err := m.recomputeResults(ctx, tx, &c, &p); err != nil {
			return err
		}

		if c.IsRated {
			hasRatings, err := tx.HasRatings(ctx, c.Key)
			if err != nil {
				return fmt.Errorf("check ratings: %w", err)
			}
			if hasRatings {
				if err := m.doRate(ctx, tx, &c, now); err != nil {
					return err
				}
			}
		}

		u, err := tx.GetUser(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if disqualified {
			if u.CurrentContestID != nil && *u.CurrentContestID == p.ID {
				u.CurrentContestID = nil
			}
			if !slices.Contains(c.BannedUsers, u.ID) {
				c.BannedUsers = append(c.BannedUsers, u.ID)
			}
		} else {
			c.BannedUsers = slices.DeleteFunc(c.BannedUsers, func(id string) bool {
				return id == u.ID
			})
		}
		if err := tx.UpdateContest(ctx, c); err != nil {
			return fmt.Errorf("update contest: %w", err)
		}

		if err := m.checkBan(ctx, tx, &c, &u); err != nil {
			return err
		}
		if err := tx.UpdateUser(ctx, u); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.log.Info("set disqualified",
		slog.String("participation_id", participationID),
		slog.Bool("disqualified", disqualified),
	)
	return nil
}

func (m *Manager) recomputeResults(ctx context.Context, tx DB, c *contest.Contest, p *contest.Participation) error {
	f, err := c.Format()
	if err != nil {
		return fmt.Errorf("contest format: %w", err)
	}
	subs, err := tx.ListSubmissions(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}
	f.UpdateParticipation(p, subs)
	if p.IsDisqualified {
		p.Score = contest.DisqualifiedScore
		p.CumTime = 0
		p.Tiebreaker = 0
	}
	if err := tx.UpdateParticipation(ctx, *p); err != nil {
		return fmt.Errorf("update participation: %w", err)
	}
	return nil
}

// checkBan applies the organization-wide cheating-ban policy. Banning is
// idempotent and reversible only when the ban reason matches the policy
// message exactly: a user banned for an unrelated reason is never
// auto-unbanned.
func (m *Manager) checkBan(ctx context.Context, tx DB, c *contest.Contest, u *profile.User) error {
	if !m.o.BanForCheating || c.IsOrganizationPrivate {
		return nil
	}
	count, err := tx.CountDisqualifications(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("count disqualifications: %w", err)
	}
	switch {
	case count >= int64(m.o.MaxDisqualifications) && !u.IsBanned:
		u.Ban(m.o.CheatingBanMessage)
		m.log.Warn("banning user for cheating",
			slog.String("user_id", u.ID),
			slog.Int64("disqualifications", count),
		)
	case count < int64(m.o.MaxDisqualifications) && u.IsBanned && u.BanReason == m.o.CheatingBanMessage:
		u.Unban()
		m.log.Info("unbanning user", slog.String("user_id", u.ID))
	}
	return nil
}

// Rate re-rates every rated contest whose end time falls in
// [c.EndTime, now], in ascending end-time order. Rating is a cumulative
// function of prior rating history, so re-rating out of order corrupts
// downstream ratings. The cascade commits as one transaction.
func (m *Manager) Rate(ctx context.Context, contestKey string, now timeutil.UTCTime) error {
	_, err, _ := m.rateGroup.Do(contestKey, func() (any, error) {
		err := m.db.Transaction(ctx, func(tx DB) error {
			c, err := tx.GetContest(ctx, contestKey)
			if err != nil {
				return fmt.Errorf("get contest: %w", err)
			}
			return m.doRate(ctx, tx, &c, now)
		})
		return nil, err
	})
	return err
}

func (m *Manager) doRate(ctx context.Context, tx DB, c *contest.Contest, now timeutil.UTCTime) error {
	if err := tx.DeleteRatingsEndingBetween(ctx, c.EndTime, now); err != nil {
		return fmt.Errorf("delete stale ratings: %w", err)
	}
	affected, err := tx.ListRatedContestsEndingBetween(ctx, c.EndTime, now)
	if err != nil {
		return fmt.Errorf("list rated contests: %w", err)
	}
	for i := range affected {
		records, err := m.engine.RateContest(ctx, &affected[i])
		if err != nil {
			return fmt.Errorf("rate contest %v: %w", affected[i].Key, err)
		}
		if err := tx.SaveRatings(ctx, records); err != nil {
			return fmt.Errorf("save ratings for %v: %w", affected[i].Key, err)
		}
	}
	m.log.Info("rated contests",
		slog.String("from_contest", c.Key),
		slog.Int("count", len(affected)),
	)
	return nil
}
