package contest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileLabelScript(t *testing.T) {
	f, err := CompileLabelScript(`function(n) return "P" .. tostring(n + 1) end`)
	require.NoError(t, err)

	label, err := f(0)
	require.NoError(t, err)
	require.Equal(t, "P1", label)

	label, err = f(9)
	require.NoError(t, err)
	require.Equal(t, "P10", label)

	f, err = CompileLabelScript(`function(n) return string.format("%02d", n + 1) end`)
	require.NoError(t, err)
	label, err = f(4)
	require.NoError(t, err)
	require.Equal(t, "05", label)
}

func TestCompileLabelScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `function(n return n end`},
		{"not a function", `42`},
		{"string literal", `"hello"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileLabelScript(tt.src)
			require.Error(t, err)
		})
	}
}

func TestValidateLabelScript(t *testing.T) {
	require.NoError(t, ValidateLabelScript(`function(n) return tostring(n) end`))
	// Compiles but returns a number instead of a string.
	require.Error(t, ValidateLabelScript(`function(n) return n end`))
	// Compiles but throws at call time.
	require.Error(t, ValidateLabelScript(`function(n) error("boom") end`))
}

func TestLabelScriptSandbox(t *testing.T) {
	// No libraries are opened, so os and io are not reachable.
	f, err := CompileLabelScript(`function(n) return os.getenv("HOME") end`)
	require.NoError(t, err)
	_, err = f(0)
	require.Error(t, err)
}

func TestLabelFor(t *testing.T) {
	c := twoHourContest("icpc")
	f, err := c.LabelFor()
	require.NoError(t, err)
	label, err := f(0)
	require.NoError(t, err)
	require.Equal(t, "A", label)

	c = twoHourContest("default")
	f, err = c.LabelFor()
	require.NoError(t, err)
	label, err = f(2)
	require.NoError(t, err)
	require.Equal(t, "3", label)

	c.ProblemLabelScript = `function(n) return "Task " .. tostring(n) end`
	f, err = c.LabelFor()
	require.NoError(t, err)
	label, err = f(2)
	require.NoError(t, err)
	require.Equal(t, "Task 2", label)
}
