package contest

import (
	"github.com/kieulqd/OJ/internal/profile"
	"github.com/kieulqd/OJ/internal/util/timeutil"
)

// Viewer is the snapshot of the requesting user for one scoreboard decision.
// User is nil when unauthenticated. Live is the user's live-mode
// participation in this contest, if any; Current is the participation the
// user is currently inside, possibly in another contest.
type Viewer struct {
	User    *profile.User
	Live    *Participation
	Current *Participation
}

func (v Viewer) authenticated() bool {
	return v.User != nil
}

func (c *Contest) IsInContest(v Viewer, now timeutil.UTCTime) bool {
	if !v.authenticated() || v.Current == nil {
		return false
	}
	return v.Current.ContestKey == c.Key && (c.CanJoin(now) || v.Current.IsSpectate())
}

// HasCompleted reports whether the viewer finished a live run of this
// contest. Spectate and virtual participations don't count.
func (c *Contest) HasCompleted(v Viewer, now timeutil.UTCTime) bool {
	return v.authenticated() && v.Live != nil && v.Live.Ended(c, now)
}

func (c *Contest) CanSeeFullScoreboard(v Viewer, oracle PermissionOracle, now timeutil.UTCTime) bool {
	if c.ShowScoreboard(now) {
		return true
	}
	if !v.authenticated() {
		return false
	}
	if oracle.HasPermission(v.User, profile.PermSeePrivateContest) ||
		oracle.HasPermission(v.User, profile.PermEditAllContest) {
		return true
	}
	if c.IsEditor(v.User.ID) {
		return true
	}
	if c.HasScoreboardGrant(v.User.ID) {
		return true
	}
	if c.ScoreboardVisibility == ScoreboardAfterParticipation && c.HasCompleted(v, now) {
		return true
	}
	return false
}

func (c *Contest) CanSeeOwnScoreboard(v Viewer, oracle PermissionOracle, now timeutil.UTCTime) bool {
	if c.CanSeeFullScoreboard(v, oracle, now) {
		return true
	}
	if !c.CanJoin(now) {
		return false
	}
	if !c.ShowScoreboard(now) && !c.IsInContest(v, now) && !c.HasCompleted(v, now) {
		return false
	}
	return true
}

// CanSeeFullSubmissionList decides whether the viewer may browse others'
// submissions. Access is evaluated before freeze state, freeze state before
// the generic ended check; reversing that order changes outcomes at the
// freeze boundary. The submission list has no frozen-snapshot rendering, so
// it simply hides while frozen.
func (c *Contest) CanSeeFullSubmissionList(v Viewer, oracle PermissionOracle, now timeutil.UTCTime) bool {
	// Viewers who cannot see the full scoreboard cannot see the submission
	// list of others either.
	if !c.CanSeeFullScoreboard(v, oracle, now) {
		return false
	}
	if v.authenticated() && c.IsEditor(v.User.ID) {
		return true
	}
	if v.authenticated() && oracle.HasPermission(v.User, profile.PermEditAllContest) {
		return true
	}
	if c.IsFrozen(now) {
		return false
	}
	if c.Ended(now) {
		return true
	}
	if c.ShowSubmissionList {
		return true
	}
	return false
}
