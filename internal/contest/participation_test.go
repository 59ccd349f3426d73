package contest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kieulqd/OJ/internal/util/timeutil"
)

func TestParticipationEndTime(t *testing.T) {
	limit := 45 * time.Minute
	withLimit := twoHourContest("default")
	withLimit.TimeLimit = &limit
	noLimit := twoHourContest("default")

	late := at(testBase, 90*time.Minute)

	tests := []struct {
		name string
		c    *Contest
		p    Participation
		want timeutil.UTCTime
	}{
		{
			name: "live without limit ends with contest",
			c:    noLimit,
			p:    Participation{Virtual: VirtualLive, RealStart: at(testBase, 10*time.Minute)},
			want: noLimit.EndTime,
		},
		{
			name: "live with limit ends after limit",
			c:    withLimit,
			p:    Participation{Virtual: VirtualLive, RealStart: at(testBase, 10*time.Minute)},
			want: at(testBase, 55*time.Minute),
		},
		{
			// Joining 90 minutes in leaves only 30 minutes of contest, less
			// than the 45 minute window.
			name: "live window clipped by contest end",
			c:    withLimit,
			p:    Participation{Virtual: VirtualLive, RealStart: late},
			want: withLimit.EndTime,
		},
		{
			name: "spectate ends with contest",
			c:    withLimit,
			p:    Participation{Virtual: VirtualSpectate, RealStart: late},
			want: withLimit.EndTime,
		},
		{
			// A virtual run started 90 minutes in keeps its full window and
			// outlives the contest.
			name: "virtual runs on its own clock",
			c:    withLimit,
			p:    Participation{Virtual: 1, RealStart: late},
			want: at(testBase, 90*time.Minute+45*time.Minute),
		},
		{
			name: "virtual without limit gets the full window",
			c:    noLimit,
			p:    Participation{Virtual: 1, RealStart: late},
			want: at(testBase, 90*time.Minute+2*time.Hour),
		},
		{
			name: "pre-registered ends with contest",
			c:    withLimit,
			p:    Participation{Virtual: VirtualLive, RealStart: PreRegisteredStart},
			want: withLimit.EndTime,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want.UTC(), tt.p.EndTime(tt.c).UTC())
		})
	}
}

func TestParticipationStart(t *testing.T) {
	limit := 45 * time.Minute
	withLimit := twoHourContest("default")
	withLimit.TimeLimit = &limit
	noLimit := twoHourContest("default")

	real := at(testBase, 10*time.Minute)

	live := Participation{Virtual: VirtualLive, RealStart: real}
	require.Equal(t, noLimit.StartTime.UTC(), live.Start(noLimit).UTC())
	require.Equal(t, real.UTC(), live.Start(withLimit).UTC())

	virtual := Participation{Virtual: 1, RealStart: real}
	require.Equal(t, real.UTC(), virtual.Start(noLimit).UTC())
}

func TestPreRegistered(t *testing.T) {
	p := Participation{RealStart: PreRegisteredStart}
	require.True(t, p.PreRegistered())

	// Any instant on the sentinel date counts.
	p.RealStart = timeutil.UTCTime(time.Date(1970, time.January, 1, 23, 59, 0, 0, time.UTC))
	require.True(t, p.PreRegistered())

	p.RealStart = at(testBase, 0)
	require.False(t, p.PreRegistered())
}

func TestParticipationEndedAndRemaining(t *testing.T) {
	c := twoHourContest("default")
	p := Participation{Virtual: VirtualLive, RealStart: at(testBase, 0)}

	now := at(testBase, 90*time.Minute)
	require.False(t, p.Ended(c, now))
	d := p.TimeRemaining(c, now)
	require.NotNil(t, d)
	require.Equal(t, 30*time.Minute, *d)

	now = at(testBase, 2*time.Hour)
	require.False(t, p.Ended(c, now), "the final instant still counts")

	now = at(testBase, 2*time.Hour+time.Second)
	require.True(t, p.Ended(c, now))
	require.Nil(t, p.TimeRemaining(c, now))
}

func TestParticipationModes(t *testing.T) {
	require.True(t, (&Participation{Virtual: VirtualLive}).IsLive())
	require.True(t, (&Participation{Virtual: VirtualSpectate}).IsSpectate())
	p := &Participation{Virtual: 2}
	require.False(t, p.IsLive())
	require.False(t, p.IsSpectate())
}
