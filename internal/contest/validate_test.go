package contest

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validContest() Contest {
	return Contest{
		Key:        "round_1",
		Name:       "Round 1",
		StartTime:  at(testBase, 0),
		EndTime:    at(testBase, 2*time.Hour),
		FormatName: "default",
	}
}

func TestValidate(t *testing.T) {
	regStart := at(testBase, -2*time.Hour)
	regEnd := at(testBase, -30*time.Minute)
	badRegEnd := at(testBase, 3*time.Hour)
	zero := time.Duration(0)
	limit := 30 * time.Minute

	tests := []struct {
		name    string
		mutate  func(c *Contest)
		wantErr bool
	}{
		{"valid", func(c *Contest) {}, false},
		{"empty key", func(c *Contest) { c.Key = "" }, true},
		{"uppercase key", func(c *Contest) { c.Key = "Round1" }, true},
		{"key too long", func(c *Contest) { c.Key = strings.Repeat("x", KeyMaxLen+1) }, true},
		{"empty name", func(c *Contest) { c.Name = "" }, true},
		{"name too long", func(c *Contest) { c.Name = strings.Repeat("x", NameMaxLen+1) }, true},
		{"ends before start", func(c *Contest) { c.EndTime = at(testBase, -time.Hour) }, true},
		{"zero length", func(c *Contest) { c.EndTime = c.StartTime }, true},
		{"registration window", func(c *Contest) {
			c.RegistrationStart = &regStart
			c.RegistrationEnd = &regEnd
		}, false},
		{"registration backwards", func(c *Contest) {
			c.RegistrationStart = &regEnd
			c.RegistrationEnd = &regStart
		}, true},
		{"registration past start", func(c *Contest) {
			s := c.StartTime
			c.RegistrationStart = &s
		}, true},
		{"registration past end", func(c *Contest) { c.RegistrationEnd = &badRegEnd }, true},
		{"valid time limit", func(c *Contest) { c.TimeLimit = &limit }, false},
		{"zero time limit", func(c *Contest) { c.TimeLimit = &zero }, true},
		{"negative frozen minutes", func(c *Contest) { c.FrozenLastMinutes = -1 }, true},
		{"frozen on default format", func(c *Contest) { c.FrozenLastMinutes = 30 }, true},
		{"frozen on icpc", func(c *Contest) {
			c.FormatName = "icpc"
			c.FrozenLastMinutes = 30
		}, false},
		{"points precision too high", func(c *Contest) { c.PointsPrecision = 11 }, true},
		{"negative points precision", func(c *Contest) { c.PointsPrecision = -1 }, true},
		{"unknown format", func(c *Contest) { c.FormatName = "ioi" }, true},
		{"bad format config", func(c *Contest) {
			c.FormatName = "icpc"
			c.FormatConfig = json.RawMessage(`{"penalty": -5}`)
		}, true},
		{"label script", func(c *Contest) {
			c.ProblemLabelScript = `function(n) return tostring(n + 1) end`
		}, false},
		{"broken label script", func(c *Contest) {
			c.ProblemLabelScript = `function(n) return n end`
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContest()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
