package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := newApp(strings.NewReader(stdin), &stdout, &stderr).execute(context.Background(), args)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeProgram(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.bf")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestRunCode(t *testing.T) {
	res := runCLI(t, "", "-c", "55+.@")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "10", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestRunSubcommand(t *testing.T) {
	res := runCLI(t, "", "run", "--code", `"!iH",,,@`)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Hi!", res.stdout)
}

func TestRunFile(t *testing.T) {
	path := writeProgram(t, "v\n>25*.@\n")
	res := runCLI(t, "", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "10", res.stdout)
}

func TestRunStdin(t *testing.T) {
	res := runCLI(t, "67*.@", "--stdin")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "42", res.stdout)
}

func TestProgramInputFromStdin(t *testing.T) {
	res := runCLI(t, "3 4\n", "-c", "&&+.@")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "7", res.stdout)
}

func TestMultipleInputSources(t *testing.T) {
	path := writeProgram(t, "@")
	for _, args := range [][]string{
		{path, "-c", "@"},
		{path, "--stdin"},
		{"-c", "@", "--stdin"},
	} {
		res := runCLI(t, "", args...)
		assert.Equal(t, exitUsage, res.code, "args %v", args)
		assert.Equal(t, "error: multiple input sources specified\n", res.stderr)
	}
}

func TestNoProgram(t *testing.T) {
	res := runCLI(t, "")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "no program specified")
}

func TestExitCodeIsHaltStatus(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"stack overflow", []string{"--stack-capacity", "3", "-c", "12@"}, 1, "runtime error[1]: stack overflow"},
		{"out of range write", []string{"-c", "0099*p@"}, 2, "runtime error[2]: used out-of-range pointer"},
		{"unknown opcode", []string{"-c", "1x"}, 3, "runtime error[3]: unknown opcode"},
		{"step limit", []string{"--max-steps", "10", "-c", ""}, 4, "step limit of 10 reached"},
		{"width overflow", []string{"--width", "2", "-c", "123"}, 102, "load error[102]: width overflow"},
		{"height overflow", []string{"--height", "1", "-c", "1\n2"}, 103, "load error[103]: height overflow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			assert.Equal(t, tt.code, res.code)
			assert.Contains(t, res.stderr, tt.stderr)
		})
	}
}

func TestMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.bf")
	res := runCLI(t, "", path)
	assert.Equal(t, 101, res.code)
	assert.Contains(t, res.stderr, "load error[101]")
	assert.Contains(t, res.stderr, "--> "+path)
}

func TestHaltDiagnostics(t *testing.T) {
	path := writeProgram(t, "v\n>  x\n")
	res := runCLI(t, "", path)
	require.Equal(t, 3, res.code)
	expected := "runtime error[3]: unknown opcode\n" +
		"  --> " + path + ":2:4\n" +
		"   |\n" +
		" 2 | >  x\n" +
		"   |    ^\n" +
		"   = note: ip moving right on opcode 'x' (UNKNOWN) after 5 steps\n"
	assert.Equal(t, expected, res.stderr)
}

func TestInvalidConfig(t *testing.T) {
	res := runCLI(t, "", "--width", "0", "--stack-capacity", "1", "-c", "@")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "width must be positive")
	assert.Contains(t, res.stderr, "stack capacity must be at least 2")
}

func TestInvalidOutputFormat(t *testing.T) {
	res := runCLI(t, "", "-o", "xml", "-c", "@")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "unknown output format: xml")
}

func TestEnvironmentConfig(t *testing.T) {
	t.Setenv("CEFUNGE_WIDTH", "2")
	res := runCLI(t, "", "-c", "123")
	assert.Equal(t, 102, res.code)

	// Flags take precedence over the environment.
	res = runCLI(t, "", "--width", "4", "-c", "1.@")
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cefunge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stack_capacity: 3\nmax_steps: 100\n"), 0o644))

	res := runCLI(t, "", "--config", path, "-c", "12@")
	assert.Equal(t, 1, res.code)

	res = runCLI(t, "", "--config", path, "-c", "")
	assert.Equal(t, 4, res.code)

	res = runCLI(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "-c", "@")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "reading config")
}

func TestDefaultConfigFile(t *testing.T) {
	homedir.DisableCache = true
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".cefunge.yaml"), []byte("width: 2\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := newApp(strings.NewReader(""), &stdout, &stderr).execute(context.Background(), []string{"-c", "123"})
	assert.Equal(t, 102, code)
}

func TestReport(t *testing.T) {
	res := runCLI(t, "", "--report", "-c", "123@")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "", res.stdout)
	assert.Contains(t, res.stderr, "status:  Success (0)\n")
	assert.Contains(t, res.stderr, "steps:   4\n")
	assert.Contains(t, res.stderr, "stack:   [1 2 3]\n")
	assert.Contains(t, res.stderr, "run id:  ")
}

func TestJSONReport(t *testing.T) {
	res := runCLI(t, "", "-o", "json", "-c", "5.x")
	require.Equal(t, 3, res.code)
	assert.Equal(t, "5", res.stdout)

	start := strings.Index(res.stderr, "{")
	end := strings.LastIndex(res.stderr, "}")
	require.True(t, start >= 0 && end > start, res.stderr)
	var report runReport
	require.NoError(t, json.Unmarshal([]byte(res.stderr[start:end+1]), &report))
	assert.Equal(t, "Unknown opcode", report.Status)
	assert.Equal(t, 3, report.Code)
	assert.Equal(t, int64(3), report.Steps)
	assert.Equal(t, []int64{}, report.Stack)
	assert.Len(t, report.RunID, 36)
	assert.Contains(t, report.Error, "unknown opcode at 2,0")
}

func TestDumpFlag(t *testing.T) {
	res := runCLI(t, "", "--width", "3", "--height", "2", "--dump", "-c", "1.@")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "---\n1.@\n   \n---\n1", res.stdout)
}

func TestDumpCommand(t *testing.T) {
	path := writeProgram(t, "v\n@")
	res := runCLI(t, "", "--width", "2", "--height", "3", "dump", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "--\nv \n@ \n  \n--\n", res.stdout)

	res = runCLI(t, "", "--width", "2", "--height", "1", "dump", "--decoration", "", "-c", "@")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "@ \n", res.stdout)

	res = runCLI(t, "", "dump", "--decoration", "ab", "-c", "@")
	assert.Equal(t, exitUsage, res.code)
}

func TestOpsCommand(t *testing.T) {
	res := runCLI(t, "", "ops")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "OP")
	assert.Contains(t, res.stdout, "PUT")
	assert.Contains(t, res.stdout, "pop y, x, v; store v at (x, y)")

	res = runCLI(t, "", "ops", "-o", "json")
	require.Equal(t, 0, res.code, res.stderr)
	var docs []opcodeDoc
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &docs))
	require.Len(t, docs, 38)
	assert.Equal(t, "NUL", docs[0].Opcode)
	assert.Equal(t, "BLANK", docs[0].Name)
}

func TestOpsLookup(t *testing.T) {
	res := runCLI(t, "", "ops", "-o", "json", "p", "dup")
	require.Equal(t, 0, res.code, res.stderr)
	var docs []opcodeDoc
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "PUT", docs[0].Name)
	assert.Equal(t, "DUP", docs[1].Name)

	res = runCLI(t, "", "ops", "swapp")
	assert.Equal(t, exitUsage, res.code)
	assert.Equal(t, "error: unknown opcode: swapp (did you mean SWAP?)\n", res.stderr)
}

func TestVersionCommand(t *testing.T) {
	res := runCLI(t, "", "version")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "cefunge dev")

	res = runCLI(t, "", "version", "-o", "json")
	require.Equal(t, 0, res.code, res.stderr)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.Equal(t, "dev", info["version"])
}

func TestTrace(t *testing.T) {
	res := runCLI(t, "", "--trace", "-c", "1.@")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "1", res.stdout)
	assert.Contains(t, res.stderr, "step")
	assert.Contains(t, res.stderr, "OUTPUT_INT")
	assert.Contains(t, res.stderr, "halt")
}

func TestLogLevel(t *testing.T) {
	res := runCLI(t, "", "--log-level", "info", "-c", "50/.@")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "0", res.stdout)
	assert.Contains(t, res.stderr, "division by zero")
	assert.Contains(t, res.stderr, "run_id=")

	res = runCLI(t, "", "--log-level", "loud", "-c", "@")
	assert.Equal(t, exitUsage, res.code)
}

func TestRawNeedsTerminal(t *testing.T) {
	res := runCLI(t, "", "--raw", "-c", "~,@")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "--raw needs a terminal")
}

func TestJSONColorFollowsDestination(t *testing.T) {
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())

	exec := func(stdoutIsTerminal bool, args ...string) (string, string) {
		var stdout, stderr bytes.Buffer
		a := newApp(strings.NewReader(""), &stdout, &stderr)
		a.terminal = func(v any) bool {
			if v == any(&stdout) {
				return stdoutIsTerminal
			}
			return v == any(&stderr) && !stdoutIsTerminal
		}
		require.Equal(t, 0, a.execute(context.Background(), args), stderr.String())
		return stdout.String(), stderr.String()
	}

	out, _ := exec(true, "version", "-o", "json")
	assert.Contains(t, out, "\x1b[")
	out, _ = exec(false, "version", "-o", "json")
	assert.NotContains(t, out, "\x1b[")
	out, _ = exec(false, "ops", "-o", "json", "@")
	assert.NotContains(t, out, "\x1b[")

	// The run report goes to stderr and is colored by its own terminal check.
	out, errOut := exec(true, "-o", "json", "-c", "1.@")
	assert.Equal(t, "1", out)
	assert.NotContains(t, errOut, "\x1b[")
	_, errOut = exec(false, "-o", "json", "-c", "1.@")
	assert.Contains(t, errOut, "\x1b[")
}

func TestDumpColoredFrame(t *testing.T) {
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	a := newApp(strings.NewReader(""), &stdout, &stderr)
	a.terminal = func(v any) bool { return v == any(&stdout) }
	code := a.execute(context.Background(), []string{"--width", "2", "--height", "1", "dump", "-c", "@"})
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "\x1b[")
	assert.Contains(t, lines[0], "--")
	assert.Equal(t, "@ ", lines[1])
	assert.Equal(t, lines[0], lines[2])
}
