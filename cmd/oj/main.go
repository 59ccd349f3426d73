package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/kieulqd/OJ/internal/contest"
	"github.com/kieulqd/OJ/internal/database"
	"github.com/kieulqd/OJ/internal/lifecycle"
	"github.com/kieulqd/OJ/internal/profile"
	"github.com/kieulqd/OJ/internal/rating"
	"github.com/kieulqd/OJ/internal/util/idgen"
	"github.com/kieulqd/OJ/internal/util/style"
	"github.com/kieulqd/OJ/internal/util/timeutil"
	"github.com/spf13/cobra"
)

// noRatingEngine rejects any re-rating attempt. The CLI maintains contest
// state but carries no rating algorithm.
type noRatingEngine struct{}

func (noRatingEngine) RateContest(ctx context.Context, c *contest.Contest) ([]rating.Rating, error) {
	return nil, errors.New("no rating engine configured")
}

var rootCmd = &cobra.Command{
	Use:   "oj",
	Short: "Contest decision core tooling",
	Long: `oj inspects and validates contest definitions: it computes the current
contest phase, evaluates access decisions, and checks contest files before
they are saved.
`,
}

func loadOptions(path string) (*Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	var opts Options
	if err := toml.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	opts.FillDefaults()
	return &opts, nil
}

func openDB(log *slog.Logger, optsPath string) (*database.DB, error) {
	opts, err := loadOptions(optsPath)
	if err != nil {
		return nil, err
	}
	return database.New(log, opts.DB)
}

func verdict(ok bool) string {
	if ok {
		return style.WithS("yes", 32)
	}
	return style.WithS("no", 31)
}

func main() {
	optsPath := rootCmd.PersistentFlags().StringP(
		"options", "o", "oj.toml",
		"options file",
	)

	var validateSave bool
	validateCmd := &cobra.Command{
		Use:   "validate <contest-file>",
		Args:  cobra.ExactArgs(1),
		Short: "Validate a contest definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read contest file: %w", err)
			}
			var file contestFile
			if err := toml.Unmarshal(raw, &file); err != nil {
				return fmt.Errorf("unmarshal contest file: %w", err)
			}
			c, err := file.Contest()
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				fmt.Printf("%v: %v\n", style.WithS("invalid", 31), err)
				os.Exit(1)
			}
			if validateSave {
				db, err := openDB(slog.Default(), *optsPath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.CreateContest(cmd.Context(), c); err != nil {
					return err
				}
				fmt.Printf("saved %v\n", c.Key)
			}
			fmt.Println(style.WithS("ok", 32))
			return nil
		},
	}
	validateCmd.Flags().BoolVar(&validateSave, "save", false, "save the contest after validation")

	initCmd := &cobra.Command{
		Use:   "init [contest-file]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Write a skeleton contest definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := petname.Generate(2, "_")
			now := time.Now().UTC().Truncate(time.Minute)
			file := contestFile{
				Key:                  key,
				Name:                 "New contest",
				StartTime:            now.Add(24 * time.Hour),
				EndTime:              now.Add(26 * time.Hour),
				IsVisible:            false,
				RateDisqualified:     true,
				ScoreboardVisibility: "visible",
				PointsPrecision:      3,
				Format:               "default",
			}
			raw, err := toml.Marshal(&file)
			if err != nil {
				return fmt.Errorf("marshal contest file: %w", err)
			}
			path := key + ".toml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := os.WriteFile(path, raw, 0644); err != nil {
				return fmt.Errorf("write contest file: %w", err)
			}
			fmt.Printf("wrote %v\n", path)
			return nil
		},
	}

	phaseCmd := &cobra.Command{
		Use:   "phase <contest-key>",
		Args:  cobra.ExactArgs(1),
		Short: "Show the current phase of a contest",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.Default()
			db, err := openDB(log, *optsPath)
			if err != nil {
				return err
			}
			defer db.Close()
			c, err := db.GetContest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			now := timeutil.NowUTC()
			fmt.Printf("phase: %v\n", c.Phase(now))
			if d := c.TimeBeforeStart(now); d != nil {
				fmt.Printf("starts in: %v\n", d.Round(time.Second))
			}
			if d := c.TimeBeforeEnd(now); d != nil {
				fmt.Printf("ends in: %v\n", d.Round(time.Second))
			}
			fmt.Printf("frozen: %v\n", verdict(c.IsFrozen(now)))
			return nil
		},
	}

	accessCmd := &cobra.Command{
		Use:   "access <contest-key> [username]",
		Args:  cobra.RangeArgs(1, 2),
		Short: "Evaluate an access decision for a user",
		Long: `Evaluates the contest access decision for the given user, or for an
unauthenticated caller when no username is given. The clock is captured once
for the whole decision.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.Default()
			db, err := openDB(log, *optsPath)
			if err != nil {
				return err
			}
			defer db.Close()
			c, err := db.GetContest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			v := contest.Viewer{}
			if len(args) == 2 {
				u, err := db.GetUserByUsername(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				v.User = &u
				if live, err := db.GetLiveParticipation(cmd.Context(), c.Key, u.ID); err == nil {
					v.Live = &live
				}
			}
			now := timeutil.NowUTC()
			decision := c.AccessCheck(v.User, contest.DefaultOracle)
			fmt.Printf("accessible: %v\n", verdict(decision.Allowed))
			if !decision.Allowed {
				fmt.Printf("reason: %v\n", decision.Reason)
			}
			fmt.Printf("editable: %v\n", verdict(c.IsEditableBy(v.User, contest.DefaultOracle)))
			fmt.Printf("full scoreboard: %v\n", verdict(c.CanSeeFullScoreboard(v, contest.DefaultOracle, now)))
			fmt.Printf("own scoreboard: %v\n", verdict(c.CanSeeOwnScoreboard(v, contest.DefaultOracle, now)))
			fmt.Printf("submission list: %v\n", verdict(c.CanSeeFullSubmissionList(v, contest.DefaultOracle, now)))
			return nil
		},
	}

	var addPassword string
	var addSuperuser bool
	adduserCmd := &cobra.Command{
		Use:   "adduser <username>",
		Args:  cobra.ExactArgs(1),
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if err := profile.ValidateUsername(username); err != nil {
				return err
			}
			if err := profile.ValidatePassword(addPassword); err != nil {
				return err
			}
			u := profile.User{
				ID:       idgen.ID(),
				Username: username,
			}
			if addSuperuser {
				u.Perms = profile.SuperuserPerms()
			}
			if err := u.SetPassword([]byte(addPassword), nil); err != nil {
				return err
			}
			db, err := openDB(slog.Default(), *optsPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.CreateUser(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Printf("created %v (%v)\n", u.Username, u.ID)
			return nil
		},
	}
	adduserCmd.Flags().StringVar(&addPassword, "password", "", "password for the new user")
	adduserCmd.Flags().BoolVar(&addSuperuser, "superuser", false, "grant all permissions")
	_ = adduserCmd.MarkFlagRequired("password")

	var joinVirtual int
	var joinSpectate, joinRegister bool
	joinCmd := &cobra.Command{
		Use:   "join <contest-key> <username>",
		Args:  cobra.ExactArgs(2),
		Short: "Start a participation in a contest",
		Long: `Creates a participation record for the user. With --register the
participation is created in the pre-registered state and the clock does not
start until the contest does.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(slog.Default(), *optsPath)
			if err != nil {
				return err
			}
			defer db.Close()
			c, err := db.GetContest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			u, err := db.GetUserByUsername(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if !c.IsAccessibleBy(&u, contest.DefaultOracle) {
				return fmt.Errorf("contest %v is not accessible for %v", c.Key, u.Username)
			}

			virtual := joinVirtual
			if joinSpectate {
				virtual = contest.VirtualSpectate
			}
			if virtual > 0 && c.DisallowVirtual {
				return fmt.Errorf("contest %v disallows virtual participation", c.Key)
			}

			now := timeutil.NowUTC()
			start := now
			switch {
			case joinRegister:
				if !c.CanRegister(now) {
					return fmt.Errorf("registration for %v is not open", c.Key)
				}
				start = contest.PreRegisteredStart
			case virtual == contest.VirtualLive && !c.CanJoin(now):
				return fmt.Errorf("contest %v has not started yet", c.Key)
			}

			p := contest.Participation{
				ID:         idgen.ID(),
				ContestKey: c.Key,
				UserID:     u.ID,
				Virtual:    virtual,
				RealStart:  start,
			}
			if err := db.CreateParticipation(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Printf("joined: %v\n", p.ID)
			if d := p.TimeRemaining(&c, now); d != nil {
				fmt.Printf("time remaining: %v\n", d.Round(time.Second))
			}
			return nil
		},
	}
	joinCmd.Flags().IntVar(&joinVirtual, "virtual", contest.VirtualLive, "virtual participation index")
	joinCmd.Flags().BoolVar(&joinSpectate, "spectate", false, "join as a spectator")
	joinCmd.Flags().BoolVar(&joinRegister, "register", false, "pre-register without starting the clock")

	var disqualifyUndo bool
	disqualifyCmd := &cobra.Command{
		Use:   "disqualify <participation-id>",
		Args:  cobra.ExactArgs(1),
		Short: "Disqualify a participation",
		Long: `Disqualifies (or, with --undo, requalifies) a participation, recomputing
its results and applying the cheating-ban policy. Re-rating an already rated
contest requires a rating engine and fails from this tool.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.Default()
			opts, err := loadOptions(*optsPath)
			if err != nil {
				return err
			}
			db, err := database.New(log, opts.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			m := lifecycle.NewManager(log, db, noRatingEngine{}, opts.Lifecycle)
			return m.SetDisqualified(cmd.Context(), args[0], !disqualifyUndo, timeutil.NowUTC())
		},
	}
	disqualifyCmd.Flags().BoolVar(&disqualifyUndo, "undo", false, "lift the disqualification")

	rootCmd.AddCommand(validateCmd, initCmd, phaseCmd, accessCmd, adduserCmd, joinCmd, disqualifyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
