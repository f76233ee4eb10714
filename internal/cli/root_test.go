package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// run executes one command tree and returns stdout, stderr and the error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "simplify", args: []string{"simplify", "sin(x)^2 + cos(x)^2"}, want: "1\n"},
		{name: "expand", args: []string{"--format", "str", "expand", "(x+1)^3"}, want: "x**3 + 3*x**2 + 3*x + 1\n"},
		{name: "factor", args: []string{"--format", "str", "factor", "x^2 + 2*x + 1"}, want: "(x + 1)**2\n"},
		{name: "diff second order", args: []string{"--ascii", "diff", "x^3", "-v", "x", "-o", "2"}, want: "6*x\n"},
		{name: "diff unicode", args: []string{"diff", "x^3", "--order", "2"}, want: "6⋅x\n"},
		{name: "definite integral", args: []string{"--format", "str", "integrate", "x", "--a", "0", "--b", "1"}, want: "1/2\n"},
		{name: "solve", args: []string{"solve", "x^2 = 9"}, want: "{-3, 3}\n"},
		{name: "eval numeric", args: []string{"eval", "x*y + 2", "--subs", "x=3", "--subs", "y=7", "--numeric"}, want: "23.0000000000000\n"},
		{name: "latex", args: []string{"latex", "x^2"}, want: "x^{2}\n"},
		{name: "latex out", args: []string{"--latex-out", "expand", "(x+1)^2"}, want: "x^{2} + 2 x + 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestLatexContainsTrig(t *testing.T) {
	out, _, err := run(t, "", "latex", "sin(x)^2 + cos(x)^2")
	require.NoError(t, err)
	assert.Contains(t, out, `\sin`)
	assert.Contains(t, out, `\cos`)
}

func TestStandardInput(t *testing.T) {
	out, _, err := run(t, "  x^2 + 2*x + 1\n", "--format", "str", "factor")
	require.NoError(t, err)
	assert.Equal(t, "(x + 1)**2\n", out)
}

func TestNoExpression(t *testing.T) {
	for _, args := range [][]string{{"simplify"}, {"simplify", "  "}} {
		_, _, err := run(t, "", args...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "No expression provided")
		assert.Equal(t, ExitUsage, ExitCode(err))
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "parse error", args: []string{"simplify", "2 +"}, code: ExitError},
		{name: "negative order", args: []string{"diff", "x", "-o", "-1"}, code: ExitError},
		{name: "unknown flag", args: []string{"simplify", "--bogus", "x"}, code: ExitUsage},
		{name: "unknown command", args: []string{"frobnicate", "x"}, code: ExitUsage},
		{name: "bad subs", args: []string{"eval", "x", "--subs", "x"}, code: ExitUsage},
		{name: "bad format", args: []string{"--format", "xml", "simplify", "x"}, code: ExitUsage},
		{name: "bad log level", args: []string{"--log-level", "loud", "simplify", "x"}, code: ExitUsage},
		{name: "no subcommand", args: []string{}, code: ExitUsage},
		{name: "too many args", args: []string{"simplify", "x", "y"}, code: ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, ExitCode(err))
		})
	}
	assert.Equal(t, ExitOK, ExitCode(nil))
}

func TestSingleBoundWarns(t *testing.T) {
	out, stderr, err := run(t, "", "--format", "str", "integrate", "x", "--a", "0")
	require.NoError(t, err)
	assert.Equal(t, "x**2/2\n", out)
	assert.Contains(t, stderr, "[WARN]")
	assert.Contains(t, stderr, "indefinite")
}

func TestDebugLogging(t *testing.T) {
	_, stderr, err := run(t, "", "--log-level", "debug", "expand", "x*(x+1)")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[DEBUG]")

	_, stderr, err = run(t, "", "expand", "x*(x+1)")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestTraceLogging(t *testing.T) {
	out, stderr, err := run(t, "x + x\n", "--log-level", "trace", "--format", "str", "simplify")
	require.NoError(t, err)
	assert.Equal(t, "2*x\n", out)
	assert.Contains(t, stderr, "[TRACE] reading expression from standard input")
	assert.Contains(t, stderr, "format=str")

	_, stderr, err = run(t, "x + x\n", "--log-level", "debug", "simplify")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "[TRACE]")
}

func TestJSONFormat(t *testing.T) {
	out, _, err := run(t, "", "--format", "json", "expand", "(x+1)^2")
	require.NoError(t, err)

	var node map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &node))
	assert.Equal(t, "add", node["type"])
	terms, ok := node["terms"].([]interface{})
	require.True(t, ok)
	assert.Len(t, terms, 3)
}

func TestYAMLFormat(t *testing.T) {
	out, _, err := run(t, "", "--format", "yaml", "solve", "x^2 = 9")
	require.NoError(t, err)

	var node map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &node))
	assert.Equal(t, "finiteset", node["type"])
	elems, ok := node["elements"].([]interface{})
	require.True(t, ok)
	assert.Len(t, elems, 2)
}

func TestASCIIOverridesToUnicode(t *testing.T) {
	out, _, err := run(t, "", "--ascii", "--unicode", "diff", "x^3", "-o", "2")
	require.NoError(t, err)
	assert.Equal(t, "6⋅x\n", out)
}
