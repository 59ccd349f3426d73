package contest

import (
	"slices"

	"github.com/kieulqd/OJ/internal/profile"
)

type AccessReason int

const (
	ReasonNone AccessReason = iota
	// ReasonInaccessible means the contest is not visible to this caller at
	// all; callers typically render it as "not found".
	ReasonInaccessible
	// ReasonPrivateContest means the contest is visible but private and the
	// caller lacks the specific grant; callers typically offer to request
	// access.
	ReasonPrivateContest
)

func (r AccessReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonInaccessible:
		return "inaccessible"
	case ReasonPrivateContest:
		return "private-contest"
	default:
		return "?"
	}
}

// AccessDecision is a transient value, never persisted. Denials are values,
// not errors.
type AccessDecision struct {
	Allowed bool
	Reason  AccessReason
}

func Allowed() AccessDecision {
	return AccessDecision{Allowed: true}
}

func Denied(r AccessReason) AccessDecision {
	return AccessDecision{Reason: r}
}

// PermissionOracle answers global permission checks. The default
// implementation reads the user's stored permission set; an alternative
// oracle may consult an external authority.
type PermissionOracle interface {
	HasPermission(u *profile.User, k profile.PermKind) bool
}

type permsOracle struct{}

func (permsOracle) HasPermission(u *profile.User, k profile.PermKind) bool {
	return u != nil && u.Perms.Get(k)
}

var DefaultOracle PermissionOracle = permsOracle{}

// AccessCheck evaluates whether u may access the contest. u == nil means the
// caller is unauthenticated. The check order is load-bearing: later checks
// assume earlier ones failed, so it must not be rearranged.
func (c *Contest) AccessCheck(u *profile.User, oracle PermissionOracle) AccessDecision {
	// Do the unauthenticated check first so we can skip authentication checks
	// later on. Unauthenticated users can only see visible, non-private
	// contests.
	if u == nil {
		if !c.IsVisible {
			return Denied(ReasonInaccessible)
		}
		if c.IsPrivate || c.IsOrganizationPrivate {
			return Denied(ReasonPrivateContest)
		}
		return Allowed()
	}

	// The user can view or edit all contests.
	if oracle.HasPermission(u, profile.PermSeePrivateContest) ||
		oracle.HasPermission(u, profile.PermEditAllContest) {
		return Allowed()
	}

	// User is author or curator for the contest.
	if c.IsEditor(u.ID) {
		return Allowed()
	}

	// User is tester for the contest.
	if c.IsTester(u.ID) {
		return Allowed()
	}

	// Contest is not publicly visible.
	if !c.IsVisible {
		return Denied(ReasonInaccessible)
	}

	// Contest is not private.
	if !c.IsPrivate && !c.IsOrganizationPrivate {
		return Allowed()
	}

	if c.HasScoreboardGrant(u.ID) {
		return Allowed()
	}

	inOrg := u.InAnyOrganization(c.Organizations)
	inUsers := slices.Contains(c.PrivateContestants, u.ID)

	if !c.IsPrivate && c.IsOrganizationPrivate {
		if inOrg {
			return Allowed()
		}
		return Denied(ReasonPrivateContest)
	}

	if c.IsPrivate && !c.IsOrganizationPrivate {
		if inUsers {
			return Allowed()
		}
		return Denied(ReasonPrivateContest)
	}

	if inOrg && inUsers {
		return Allowed()
	}
	return Denied(ReasonPrivateContest)
}

func (c *Contest) IsAccessibleBy(u *profile.User, oracle PermissionOracle) bool {
	return c.AccessCheck(u, oracle).Allowed
}

func (c *Contest) IsEditableBy(u *profile.User, oracle PermissionOracle) bool {
	if u == nil {
		return false
	}
	if oracle.HasPermission(u, profile.PermEditAllContest) {
		return true
	}
	return oracle.HasPermission(u, profile.PermEditOwnContest) && c.IsEditor(u.ID)
}
