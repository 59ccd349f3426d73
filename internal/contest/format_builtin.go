package contest

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

func init() {
	RegisterFormat("default", FormatFactory{
		Kind: FormatDefault,
		New: func(c *Contest, config json.RawMessage) (Format, error) {
			cfg, err := parseDefaultConfig(config)
			if err != nil {
				return nil, err
			}
			return &defaultFormat{contest: c, cfg: cfg}, nil
		},
		Validate: func(config json.RawMessage) error {
			_, err := parseDefaultConfig(config)
			return err
		},
	})
	RegisterFormat("icpc", FormatFactory{
		Kind: FormatICPC,
		New: func(c *Contest, config json.RawMessage) (Format, error) {
			cfg, err := parsePenaltyConfig(config)
			if err != nil {
				return nil, err
			}
			return &penaltyFormat{contest: c, kind: FormatICPC, cfg: cfg}, nil
		},
		Validate: func(config json.RawMessage) error {
			_, err := parsePenaltyConfig(config)
			return err
		},
	})
	RegisterFormat("vnoj", FormatFactory{
		Kind: FormatVNOJ,
		New: func(c *Contest, config json.RawMessage) (Format, error) {
			cfg, err := parsePenaltyConfig(config)
			if err != nil {
				return nil, err
			}
			return &penaltyFormat{contest: c, kind: FormatVNOJ, cfg: cfg}, nil
		},
		Validate: func(config json.RawMessage) error {
			_, err := parsePenaltyConfig(config)
			return err
		},
	})
}

func roundPoints(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

func numberLabel(index int) string {
	return strconv.Itoa(index + 1)
}

// letterLabel produces A, B, ..., Z, AA, AB, ... for zero-indexed problems.
func letterLabel(index int) string {
	index++
	var res []byte
	for index > 0 {
		index--
		res = append([]byte{byte('A' + index%26)}, res...)
		index /= 26
	}
	return string(res)
}

type defaultConfig struct {
	CumTime bool `json:"cumtime"`
}

func parseDefaultConfig(config json.RawMessage) (defaultConfig, error) {
	var cfg defaultConfig
	if len(config) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(config, &cfg); err != nil {
		return cfg, fmt.Errorf("format config: %w", err)
	}
	return cfg, nil
}

// defaultFormat sums the best score per problem; cumulative time, when
// enabled, is the sum of the last score-improving submission times.
type defaultFormat struct {
	contest *Contest
	cfg     defaultConfig
}

func (f *defaultFormat) Kind() FormatKind {
	return FormatDefault
}

func (f *defaultFormat) DefaultLabel(index int) string {
	return numberLabel(index)
}

func (f *defaultFormat) UpdateParticipation(p *Participation, subs []ContestSubmission) {
	start := p.Start(f.contest)
	best := map[string]float64{}
	lastImproved := map[string]time.Duration{}
	for _, s := range subs {
		if s.Points > best[s.Problem] {
			best[s.Problem] = s.Points
			lastImproved[s.Problem] = s.SubmittedAt.Sub(start)
		}
	}
	var score float64
	var cumtime int64
	for problem, pts := range best {
		score += pts
		if f.cfg.CumTime && pts > 0 {
			cumtime += int64(lastImproved[problem].Seconds())
		}
	}
	p.Score = roundPoints(score, f.contest.PointsPrecision)
	p.CumTime = cumtime
	p.Tiebreaker = 0
}

type penaltyConfig struct {
	Penalty int `json:"penalty"`
}

func parsePenaltyConfig(config json.RawMessage) (penaltyConfig, error) {
	cfg := penaltyConfig{Penalty: 20}
	if len(config) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(config, &cfg); err != nil {
		return cfg, fmt.Errorf("format config: %w", err)
	}
	if cfg.Penalty < 0 {
		return cfg, fmt.Errorf("format config: negative penalty")
	}
	return cfg, nil
}

// penaltyFormat scores ICPC-style: one point per solved problem, cumulative
// time in minutes plus a fixed penalty per rejected attempt before the first
// accept. VNOJ shares the mechanics and differs only in kind.
type penaltyFormat struct {
	contest *Contest
	kind    FormatKind
	cfg     penaltyConfig
}

func (f *penaltyFormat) Kind() FormatKind {
	return f.kind
}

func (f *penaltyFormat) DefaultLabel(index int) string {
	return letterLabel(index)
}

func (f *penaltyFormat) UpdateParticipation(p *Participation, subs []ContestSubmission) {
	start := p.Start(f.contest)
	type problemState struct {
		solved   bool
		rejected int
		accepted time.Duration
	}
	problems := map[string]*problemState{}
	for _, s := range subs {
		st := problems[s.Problem]
		if st == nil {
			st = &problemState{}
			problems[s.Problem] = st
		}
		if st.solved {
			continue
		}
		if s.Points > 0 {
			st.solved = true
			st.accepted = s.SubmittedAt.Sub(start)
		} else {
			st.rejected++
		}
	}
	var score float64
	var cumtime int64
	var lastAccept time.Duration
	for _, st := range problems {
		if !st.solved {
			continue
		}
		score++
		minutes := int64(st.accepted.Minutes())
		cumtime += minutes + int64(st.rejected*f.cfg.Penalty)
		if st.accepted > lastAccept {
			lastAccept = st.accepted
		}
	}
	p.Score = score
	p.CumTime = cumtime
	p.Tiebreaker = lastAccept.Seconds()
}
