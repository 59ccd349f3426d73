package contest

import (
	"encoding/json"
	"fmt"
	"sort"
)

type FormatKind int

const (
	FormatDefault FormatKind = iota
	FormatICPC
	FormatVNOJ
)

func (k FormatKind) String() string {
	switch k {
	case FormatDefault:
		return "default"
	case FormatICPC:
		return "icpc"
	case FormatVNOJ:
		return "vnoj"
	default:
		return "?"
	}
}

// SupportsFrozen reports whether scoreboards of this format kind may be
// frozen. Only ICPC and VNOJ ever freeze.
func (k FormatKind) SupportsFrozen() bool {
	return k == FormatICPC || k == FormatVNOJ
}

// Format recomputes a participation's results from its judged submissions.
// The scoring rules themselves are a pluggable strategy; the core only
// decides when and for whom they apply.
type Format interface {
	Kind() FormatKind
	// UpdateParticipation recomputes Score, CumTime and Tiebreaker in place.
	UpdateParticipation(p *Participation, subs []ContestSubmission)
	// DefaultLabel labels the zero-indexed problem when no custom label
	// script is configured.
	DefaultLabel(index int) string
}

type FormatFactory struct {
	Kind     FormatKind
	New      func(c *Contest, config json.RawMessage) (Format, error)
	Validate func(config json.RawMessage) error
}

var formats = map[string]FormatFactory{}

// RegisterFormat registers a contest format under the given name. It is meant
// to be called from init() and is not safe for concurrent use.
func RegisterFormat(name string, f FormatFactory) {
	if _, ok := formats[name]; ok {
		panic(fmt.Sprintf("format %q registered twice", name))
	}
	formats[name] = f
}

func FormatChoices() []string {
	res := make([]string, 0, len(formats))
	for name := range formats {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func (c *Contest) Format() (Format, error) {
	f, ok := formats[c.FormatName]
	if !ok {
		return nil, fmt.Errorf("unknown contest format %q", c.FormatName)
	}
	return f.New(c, c.FormatConfig)
}

// FormatKind resolves the contest's format kind, falling back to the default
// kind for unknown names. Evaluation never fails on a bad format name; that
// is caught at validation time.
func (c *Contest) FormatKind() FormatKind {
	f, ok := formats[c.FormatName]
	if !ok {
		return FormatDefault
	}
	return f.Kind
}

func validateFormatConfig(name string, config json.RawMessage) error {
	f, ok := formats[name]
	if !ok {
		return fmt.Errorf("unknown contest format %q", name)
	}
	return f.Validate(config)
}
