package contest

import (
	"fmt"
	"sync"

	lua "github.com/Shopify/go-lua"
)

// LabelFunc maps a zero-indexed contest problem index to its display label.
type LabelFunc func(index int) (string, error)

const labelScriptGlobal = "problem_label"

// newLabelState builds a Lua state with only the base, string, math and table
// libraries, minus the base functions that reach the filesystem. Scripts get
// string formatting and arithmetic, nothing else.
func newLabelState() *lua.State {
	state := lua.NewState()
	for _, lib := range []struct {
		name string
		open lua.Function
	}{
		{"_G", lua.BaseOpen},
		{"string", lua.StringOpen},
		{"math", lua.MathOpen},
		{"table", lua.TableOpen},
	} {
		lua.Require(state, lib.name, lib.open, true)
		state.Pop(1)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "print"} {
		state.PushNil()
		state.SetGlobal(name)
	}
	return state
}

// CompileLabelScript evaluates a user-supplied Lua expression that must yield
// a single function from integer index to string label. The returned function
// serializes calls; a Lua state is not safe for concurrent use.
func CompileLabelScript(src string) (LabelFunc, error) {
	state := newLabelState()
	if err := lua.DoString(state, "return ("+src+")"); err != nil {
		return nil, fmt.Errorf("evaluate label script: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeFunction {
		state.Pop(1)
		return nil, fmt.Errorf("label script must evaluate to a function")
	}
	state.SetGlobal(labelScriptGlobal)

	var mu sync.Mutex
	return func(index int) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		state.Global(labelScriptGlobal)
		state.PushInteger(index)
		if err := state.ProtectedCall(1, 1, 0); err != nil {
			return "", fmt.Errorf("call label script: %w", err)
		}
		defer state.Pop(1)
		if state.TypeOf(-1) != lua.TypeString {
			return "", fmt.Errorf("label script should return a string")
		}
		label, _ := state.ToString(-1)
		return label, nil
	}, nil
}

// ValidateLabelScript runs the script against index 0 the way a contest with
// at least one problem would and requires a string result. Called at contest
// save time; evaluation assumes a previously validated script.
func ValidateLabelScript(src string) error {
	f, err := CompileLabelScript(src)
	if err != nil {
		return err
	}
	if _, err := f(0); err != nil {
		return err
	}
	return nil
}

// LabelFor returns the label function for this contest: the custom Lua script
// when configured, the format's default labeling otherwise.
func (c *Contest) LabelFor() (LabelFunc, error) {
	if c.ProblemLabelScript == "" {
		f, err := c.Format()
		if err != nil {
			return nil, err
		}
		return func(index int) (string, error) {
			return f.DefaultLabel(index), nil
		}, nil
	}
	return CompileLabelScript(c.ProblemLabelScript)
}
