package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermsGet(t *testing.T) {
	var p Perms
	for k := PermKind(0); k < PermMax; k++ {
		require.False(t, p.Get(k), "perm %v", k)
	}

	*p.GetMut(PermRateContest) = true
	require.True(t, p.Get(PermRateContest))
	require.False(t, p.Get(PermLockContest))

	super := SuperuserPerms()
	for k := PermKind(0); k < PermMax; k++ {
		require.True(t, super.Get(k), "perm %v", k)
	}
}

func TestPermKindStrings(t *testing.T) {
	// Every kind must have both renderings; a missing case panics.
	for k := PermKind(0); k < PermMax; k++ {
		require.NotEmpty(t, k.String())
		require.NotEmpty(t, k.PrettyString())
	}
}

func TestBanUnban(t *testing.T) {
	contestID := "part1"
	u := User{ID: "u1", CurrentContestID: &contestID}

	u.Ban("cheating")
	require.True(t, u.IsBanned)
	require.Equal(t, "cheating", u.BanReason)
	require.Nil(t, u.CurrentContestID, "a banned user is pulled out of their contest")

	u.Unban()
	require.False(t, u.IsBanned)
	require.Empty(t, u.BanReason)
}

func TestPasswordRoundtrip(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword([]byte("correct horse"), nil))
	require.True(t, u.VerifyPassword([]byte("correct horse"), nil))
	require.False(t, u.VerifyPassword([]byte("battery staple"), nil))

	// Re-hashing with a fresh salt must produce a different hash.
	oldHash := append([]byte(nil), u.PasswordHash...)
	require.NoError(t, u.SetPassword([]byte("correct horse"), nil))
	require.NotEqual(t, oldHash, u.PasswordHash)
	require.True(t, u.VerifyPassword([]byte("correct horse"), nil))
}

func TestInAnyOrganization(t *testing.T) {
	u := User{Organizations: []string{"org1", "org2"}}
	require.True(t, u.InAnyOrganization([]string{"org2", "org3"}))
	require.False(t, u.InAnyOrganization([]string{"org3"}))
	require.False(t, u.InAnyOrganization(nil))

	empty := User{}
	require.False(t, empty.InAnyOrganization([]string{"org1"}))
}

func TestUserClone(t *testing.T) {
	contestID := "part1"
	rating := 1500
	u := User{
		ID:               "u1",
		Organizations:    []string{"org1"},
		CurrentContestID: &contestID,
		Rating:           &rating,
	}
	c := u.Clone()
	c.Organizations[0] = "changed"
	*c.CurrentContestID = "changed"
	*c.Rating = 0
	require.Equal(t, "org1", u.Organizations[0])
	require.Equal(t, "part1", *u.CurrentContestID)
	require.Equal(t, 1500, *u.Rating)
}

func TestValidateUsername(t *testing.T) {
	require.NoError(t, ValidateUsername("tourist"))
	require.NoError(t, ValidateUsername("user_1-a"))
	require.Error(t, ValidateUsername("ab"))
	require.Error(t, ValidateUsername("has space"))
	require.Error(t, ValidateUsername("юзер"))
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("12345678"))
	require.Error(t, ValidatePassword("1234567"))
}
