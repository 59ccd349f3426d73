package contest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kieulqd/OJ/internal/profile"
)

func plainUser(id string, orgs ...string) *profile.User {
	return &profile.User{ID: id, Username: id, Organizations: orgs}
}

func permUser(id string, perms ...profile.PermKind) *profile.User {
	u := plainUser(id)
	for _, k := range perms {
		*u.Perms.GetMut(k) = true
	}
	return u
}

func TestAccessCheckUnauthenticated(t *testing.T) {
	tests := []struct {
		name    string
		contest Contest
		want    AccessDecision
	}{
		{
			name:    "public visible",
			contest: Contest{IsVisible: true},
			want:    Allowed(),
		},
		{
			name:    "invisible",
			contest: Contest{IsVisible: false},
			want:    Denied(ReasonInaccessible),
		},
		{
			// Visibility is checked first: an invisible private contest reads
			// as not found, never as "private".
			name:    "invisible and private",
			contest: Contest{IsVisible: false, IsPrivate: true},
			want:    Denied(ReasonInaccessible),
		},
		{
			name:    "visible private",
			contest: Contest{IsVisible: true, IsPrivate: true},
			want:    Denied(ReasonPrivateContest),
		},
		{
			name:    "visible org-private",
			contest: Contest{IsVisible: true, IsOrganizationPrivate: true},
			want:    Denied(ReasonPrivateContest),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.contest.AccessCheck(nil, DefaultOracle))
		})
	}
}

func TestAccessCheckRoles(t *testing.T) {
	hidden := Contest{
		Key:      "secret",
		Authors:  []string{"alice"},
		Curators: []string{"bob"},
		Testers:  []string{"carol"},
	}

	tests := []struct {
		name string
		user *profile.User
		want AccessDecision
	}{
		{"author sees invisible contest", plainUser("alice"), Allowed()},
		{"curator sees invisible contest", plainUser("bob"), Allowed()},
		{"tester sees invisible contest", plainUser("carol"), Allowed()},
		{"stranger denied", plainUser("dave"), Denied(ReasonInaccessible)},
		{"see-private perm", permUser("dave", profile.PermSeePrivateContest), Allowed()},
		{"edit-all perm", permUser("dave", profile.PermEditAllContest), Allowed()},
		{"superuser", &profile.User{ID: "root", Perms: profile.SuperuserPerms()}, Allowed()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, hidden.AccessCheck(tt.user, DefaultOracle))
		})
	}
}

func TestAccessCheckPrivateMatrix(t *testing.T) {
	base := Contest{
		Key:                "private_round",
		IsVisible:          true,
		PrivateContestants: []string{"ivan"},
		Organizations:      []string{"org1"},
	}

	inBoth := plainUser("ivan", "org1")
	orgOnly := plainUser("petr", "org1")
	listOnly := plainUser("ivan")
	neither := plainUser("petr")

	tests := []struct {
		name       string
		private    bool
		orgPrivate bool
		user       *profile.User
		want       AccessDecision
	}{
		{"user-private listed", true, false, listOnly, Allowed()},
		{"user-private unlisted", true, false, orgOnly, Denied(ReasonPrivateContest)},
		{"org-private member", false, true, orgOnly, Allowed()},
		{"org-private outsider", false, true, listOnly, Denied(ReasonPrivateContest)},
		// Both flags set require both memberships at once.
		{"both listed and member", true, true, inBoth, Allowed()},
		{"both only listed", true, true, listOnly, Denied(ReasonPrivateContest)},
		{"both only member", true, true, orgOnly, Denied(ReasonPrivateContest)},
		{"both neither", true, true, neither, Denied(ReasonPrivateContest)},
		{"no privacy flags", false, false, neither, Allowed()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base.Clone()
			c.IsPrivate = tt.private
			c.IsOrganizationPrivate = tt.orgPrivate
			require.Equal(t, tt.want, c.AccessCheck(tt.user, DefaultOracle))
		})
	}
}

func TestAccessCheckScoreboardGrant(t *testing.T) {
	c := Contest{
		Key:                    "private_round",
		IsVisible:              true,
		IsPrivate:              true,
		ViewScoreboardGrantees: []string{"judge"},
	}
	require.Equal(t, Allowed(), c.AccessCheck(plainUser("judge"), DefaultOracle))
	require.Equal(t, Denied(ReasonPrivateContest), c.AccessCheck(plainUser("other"), DefaultOracle))
}

func TestIsEditableBy(t *testing.T) {
	c := Contest{Key: "round", Authors: []string{"alice"}, Curators: []string{"bob"}}

	editOwn := permUser("alice", profile.PermEditOwnContest)
	tests := []struct {
		name string
		user *profile.User
		want bool
	}{
		{"unauthenticated", nil, false},
		{"author without perm", plainUser("alice"), false},
		{"author with edit-own", editOwn, true},
		{"curator with edit-own", permUser("bob", profile.PermEditOwnContest), true},
		{"stranger with edit-own", permUser("dave", profile.PermEditOwnContest), false},
		{"stranger with edit-all", permUser("dave", profile.PermEditAllContest), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, c.IsEditableBy(tt.user, DefaultOracle))
		})
	}
}

func TestEditorIDs(t *testing.T) {
	c := Contest{
		Authors:  []string{"alice", "bob"},
		Curators: []string{"bob", "carol"},
	}
	require.Equal(t, []string{"alice", "bob", "carol"}, c.EditorIDs())
	require.True(t, c.IsEditor("carol"))
	require.False(t, c.IsEditor("dave"))
}
