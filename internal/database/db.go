package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kieulqd/OJ/internal/contest"
	"github.com/kieulqd/OJ/internal/lifecycle"
	"github.com/kieulqd/OJ/internal/profile"
	"github.com/kieulqd/OJ/internal/rating"
	"github.com/kieulqd/OJ/internal/util/slogx"
	"github.com/kieulqd/OJ/internal/util/timeutil"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Options struct {
	Path          string        `toml:"path"`
	Debug         bool          `toml:"debug"`
	SlowThreshold time.Duration `toml:"slow-threshold"`
	BusyTimeout   time.Duration `toml:"busy-timeout"`
	UseWAL        bool          `toml:"use-wal"`
}

func (o *Options) FillDefaults() {
	if o.SlowThreshold == 0 {
		o.SlowThreshold = 200 * time.Millisecond
	}
	if o.BusyTimeout == 0 {
		o.BusyTimeout = 1 * time.Minute
	}
}

type DB struct {
	db  *gorm.DB
	log *slog.Logger
}

var (
	_ lifecycle.DB = (*DB)(nil)
	_ profile.DB   = (*DB)(nil)
)

func (d *DB) Close() {
	db, err := d.db.DB()
	if err != nil {
		d.log.Error("could not get underlying db", slogx.Err(err))
		return
	}
	err = db.Close()
	if err != nil {
		d.log.Error("could not close db", slogx.Err(err))
	}
}

func buildPath(o Options) string {
	var params []string
	if o.UseWAL {
		params = append(params, "_journal_mode=WAL")
		params = append(params, "_synchronous=NORMAL")
	}
	params = append(params, fmt.Sprintf("_busy_timeout=%v", o.BusyTimeout.Milliseconds()))
	params = append(params, "_foreign_keys=1")
	paramStr := strings.Join(params, "&")
	if paramStr == "" {
		return o.Path
	}
	return o.Path + "?" + paramStr
}

func New(log *slog.Logger, o Options) (*DB, error) {
	o.FillDefaults()

	log.Info("opening db")
	db, err := gorm.Open(sqlite.Open(buildPath(o)), &gorm.Config{
		Logger: Logger(log, o),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	d := &DB{db: db, log: log}

	log.Info("migrating db")
	if err := db.AutoMigrate(models...); err != nil {
		d.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	log.Info("db opened")
	return d, nil
}

func (d *DB) Transaction(ctx context.Context, fn func(tx lifecycle.DB) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DB{db: tx, log: d.log})
	})
}

func (d *DB) CreateContest(ctx context.Context, c contest.Contest) error {
	err := d.db.WithContext(ctx).Create(&c).Error
	if err != nil {
		return fmt.Errorf("create contest: %w", err)
	}
	return nil
}

func (d *DB) GetContest(ctx context.Context, key string) (contest.Contest, error) {
	var res []contest.Contest
	err := d.db.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&res).Error
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get contest: %w", err)
	}
	if len(res) == 0 {
		return contest.Contest{}, lifecycle.ErrNoSuchContest
	}
	return res[0], nil
}

func (d *DB) UpdateContest(ctx context.Context, c contest.Contest) error {
	err := d.db.WithContext(ctx).Save(&c).Error
	if err != nil {
		return fmt.Errorf("update contest: %w", err)
	}
	return nil
}

func (d *DB) ListContests(ctx context.Context) ([]contest.Contest, error) {
	var res []contest.Contest
	err := d.db.WithContext(ctx).Order("start_time").Find(&res).Error
	if err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}
	return res, nil
}

func (d *DB) ListRatedContestsEndingBetween(ctx context.Context, from, to timeutil.UTCTime) ([]contest.Contest, error) {
	var res []contest.Contest
	err := d.db.WithContext(ctx).
		Where("is_rated = ? AND end_time BETWEEN ? AND ?", true, from, to).
		Order("end_time").
		Find(&res).Error
	if err != nil {
		return nil, fmt.Errorf("list rated contests: %w", err)
	}
	return res, nil
}

func (d *DB) CreateParticipation(ctx context.Context, p contest.Participation) error {
	err := d.db.WithContext(ctx).Create(&p).Error
	if err != nil {
		return fmt.Errorf("create participation: %w", err)
	}
	return nil
}

func (d *DB) GetParticipation(ctx context.Context, id string) (contest.Participation, error) {
	var res []contest.Participation
	err := d.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&res).Error
	if err != nil {
		return contest.Participation{}, fmt.Errorf("get participation: %w", err)
	}
	if len(res) == 0 {
		return contest.Participation{}, lifecycle.ErrNoSuchParticipation
	}
	return res[0], nil
}

func (d *DB) GetLiveParticipation(ctx context.Context, contestKey, userID string) (contest.Participation, error) {
	var res []contest.Participation
	err := d.db.WithContext(ctx).
		Where("contest_key = ? AND user_id = ? AND virtual = ?", contestKey, userID, contest.VirtualLive).
		Limit(1).
		Find(&res).Error
	if err != nil {
		return contest.Participation{}, fmt.Errorf("get live participation: %w", err)
	}
	if len(res) == 0 {
		return contest.Participation{}, lifecycle.ErrNoSuchParticipation
	}
	return res[0], nil
}

func (d *DB) UpdateParticipation(ctx context.Context, p contest.Participation) error {
	err := d.db.WithContext(ctx).Save(&p).Error
	if err != nil {
		return fmt.Errorf("update participation: %w", err)
	}
	return nil
}

func (d *DB) ListSubmissions(ctx context.Context, participationID string) ([]contest.ContestSubmission, error) {
	var res []contest.ContestSubmission
	err := d.db.WithContext(ctx).
		Where("participation_id = ?", participationID).
		Order("submitted_at").
		Find(&res).Error
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return res, nil
}

func (d *DB) CountDisqualifications(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := d.db.WithContext(ctx).
		Model(&contest.Participation{}).
		Joins("JOIN contests ON contests.key = participations.contest_key").
		Where("participations.user_id = ? AND participations.is_disqualified = ? AND contests.is_organization_private = ?",
			userID, true, false).
		Count(&cnt).Error
	if err != nil {
		return 0, fmt.Errorf("count disqualifications: %w", err)
	}
	return cnt, nil
}

func (d *DB) HasRatings(ctx context.Context, contestKey string) (bool, error) {
	var cnt int64
	err := d.db.WithContext(ctx).
		Model(&rating.Rating{}).
		Where("contest_key = ?", contestKey).
		Count(&cnt).Error
	if err != nil {
		return false, fmt.Errorf("count ratings: %w", err)
	}
	return cnt > 0, nil
}

func (d *DB) DeleteRatingsEndingBetween(ctx context.Context, from, to timeutil.UTCTime) error {
	err := d.db.WithContext(ctx).
		Where("contest_key IN (?)",
			d.db.Model(&contest.Contest{}).Select("key").Where("end_time BETWEEN ? AND ?", from, to)).
		Delete(&rating.Rating{}).Error
	if err != nil {
		return fmt.Errorf("delete ratings: %w", err)
	}
	return nil
}

func (d *DB) SaveRatings(ctx context.Context, ratings []rating.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	err := d.db.WithContext(ctx).Create(&ratings).Error
	if err != nil {
		return fmt.Errorf("save ratings: %w", err)
	}
	return nil
}

func (d *DB) CreateUser(ctx context.Context, user profile.User) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var result []profile.User
		err := tx.Where("username = ?", user.Username).Limit(1).Find(&result).Error
		if err != nil {
			return fmt.Errorf("search for user: %w", err)
		}
		if len(result) != 0 {
			return errors.New("user with such username already exists")
		}
		err = tx.Create(&user).Error
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

func (d *DB) GetUser(ctx context.Context, userID string) (profile.User, error) {
	var users []profile.User
	err := d.db.WithContext(ctx).Where("id = ?", userID).Limit(1).Find(&users).Error
	if err != nil {
		return profile.User{}, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 {
		return profile.User{}, profile.ErrUserNotFound
	}
	return users[0], nil
}

func (d *DB) GetUserByUsername(ctx context.Context, username string) (profile.User, error) {
	var users []profile.User
	err := d.db.WithContext(ctx).Where("username = ?", username).Limit(1).Find(&users).Error
	if err != nil {
		return profile.User{}, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 {
		return profile.User{}, profile.ErrUserNotFound
	}
	return users[0], nil
}

func (d *DB) ListUsers(ctx context.Context) ([]profile.User, error) {
	var users []profile.User
	err := d.db.WithContext(ctx).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (d *DB) UpdateUser(ctx context.Context, user profile.User) error {
	err := d.db.WithContext(ctx).Save(&user).Error
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (d *DB) CountUsers(ctx context.Context) (int64, error) {
	var cnt int64
	err := d.db.WithContext(ctx).Model(&profile.User{}).Count(&cnt).Error
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return cnt, nil
}
