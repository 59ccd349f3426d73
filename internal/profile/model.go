package profile

import (
	crand "crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"slices"

	"github.com/kieulqd/OJ/internal/util/clone"
	"golang.org/x/crypto/argon2"
)

type PasswordOptions struct {
	Time    uint32 `toml:"time"`
	Memory  uint32 `toml:"memory"`
	Threads uint8  `toml:"threads"`
	KeyLen  uint32 `toml:"key-len"`
	SaltLen uint32 `toml:"salt-len"`
}

var defaultPasswordOptions = &PasswordOptions{
	Time:    3,
	Memory:  16384,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 32,
}

type PermKind int

const (
	PermSeePrivateContest PermKind = iota
	PermEditOwnContest
	PermEditAllContest
	PermRateContest
	PermContestAccessCode
	PermCreatePrivateContest
	PermChangeContestVisibility
	PermContestProblemLabel
	PermLockContest
	PermMossContest
	PermMax
)

func (k PermKind) String() string {
	switch k {
	case PermSeePrivateContest:
		return "see-private-contest"
	case PermEditOwnContest:
		return "edit-own-contest"
	case PermEditAllContest:
		return "edit-all-contest"
	case PermRateContest:
		return "rate-contest"
	case PermContestAccessCode:
		return "contest-access-code"
	case PermCreatePrivateContest:
		return "create-private-contest"
	case PermChangeContestVisibility:
		return "change-contest-visibility"
	case PermContestProblemLabel:
		return "contest-problem-label"
	case PermLockContest:
		return "lock-contest"
	case PermMossContest:
		return "moss-contest"
	default:
		panic("bad perm")
	}
}

func (k PermKind) PrettyString() string {
	switch k {
	case PermSeePrivateContest:
		return "See private contests"
	case PermEditOwnContest:
		return "Edit own contests"
	case PermEditAllContest:
		return "Edit all contests"
	case PermRateContest:
		return "Rate contests"
	case PermContestAccessCode:
		return "Contest access codes"
	case PermCreatePrivateContest:
		return "Create private contests"
	case PermChangeContestVisibility:
		return "Change contest visibility"
	case PermContestProblemLabel:
		return "Edit contest problem label script"
	case PermLockContest:
		return "Change lock status of contest"
	case PermMossContest:
		return "MOSS contest"
	default:
		panic("bad perm")
	}
}

type Perms struct {
	IsSuperuser bool

	CanSeePrivateContest       bool
	CanEditOwnContest          bool
	CanEditAllContest          bool
	CanRateContest             bool
	CanContestAccessCode       bool
	CanCreatePrivateContest    bool
	CanChangeContestVisibility bool
	CanContestProblemLabel     bool
	CanLockContest             bool
	CanMossContest             bool
}

func (p *Perms) GetMut(k PermKind) *bool {
	switch k {
	case PermSeePrivateContest:
		return &p.CanSeePrivateContest
	case PermEditOwnContest:
		return &p.CanEditOwnContest
	case PermEditAllContest:
		return &p.CanEditAllContest
	case PermRateContest:
		return &p.CanRateContest
	case PermContestAccessCode:
		return &p.CanContestAccessCode
	case PermCreatePrivateContest:
		return &p.CanCreatePrivateContest
	case PermChangeContestVisibility:
		return &p.CanChangeContestVisibility
	case PermContestProblemLabel:
		return &p.CanContestProblemLabel
	case PermLockContest:
		return &p.CanLockContest
	case PermMossContest:
		return &p.CanMossContest
	default:
		panic("bad perm to get")
	}
}

func (p Perms) Get(k PermKind) bool {
	if p.IsSuperuser {
		return true
	}
	return *p.GetMut(k)
}

func SuperuserPerms() Perms {
	return Perms{IsSuperuser: true}
}

// User is a snapshot of a user profile. Organizations holds the IDs of the
// organizations the user is a member of.
type User struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"index"`
	PasswordHash []byte
	PasswordSalt []byte

	Organizations []string `gorm:"serializer:json"`
	Perms         Perms    `gorm:"embedded"`

	IsBanned  bool
	BanReason string

	// CurrentContestID points to the participation the user is currently
	// inside, if any.
	CurrentContestID *string

	Rating *int
}

func (u User) Clone() User {
	u.PasswordHash = clone.TrivialSlice(u.PasswordHash)
	u.PasswordSalt = clone.TrivialSlice(u.PasswordSalt)
	u.Organizations = clone.TrivialSlice(u.Organizations)
	u.CurrentContestID = clone.TrivialPtr(u.CurrentContestID)
	u.Rating = clone.TrivialPtr(u.Rating)
	return u
}

func (u *User) InAnyOrganization(orgIDs []string) bool {
	for _, id := range u.Organizations {
		if slices.Contains(orgIDs, id) {
			return true
		}
	}
	return false
}

func (u *User) Ban(reason string) {
	u.IsBanned = true
	u.BanReason = reason
	u.CurrentContestID = nil
}

func (u *User) Unban() {
	u.IsBanned = false
	u.BanReason = ""
}

func (u *User) doHash(password []byte, o *PasswordOptions) []byte {
	return argon2.IDKey(password, u.PasswordSalt, o.Time, o.Memory, o.Threads, o.KeyLen)
}

func (u *User) SetPassword(password []byte, o *PasswordOptions) error {
	if o == nil {
		o = defaultPasswordOptions
	}

	salt := make([]byte, o.SaltLen)
	_, err := io.ReadFull(crand.Reader, salt)
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	u.PasswordSalt = salt
	u.PasswordHash = u.doHash(password, o)
	return nil
}

func (u *User) VerifyPassword(password []byte, o *PasswordOptions) bool {
	if o == nil {
		o = defaultPasswordOptions
	}
	hash := u.doHash(password, o)
	return subtle.ConstantTimeCompare(hash, u.PasswordHash) == 1
}
