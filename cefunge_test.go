package cefunge

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/deepnoodle-ai/cefunge/errz"
	"github.com/deepnoodle-ai/cefunge/vm"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicUsage(t *testing.T) {
	var out bytes.Buffer
	result, err := Eval(context.Background(), "55+.@", WithOutput(&out))
	require.NoError(t, err)
	require.Equal(t, "10", out.String())
	require.True(t, result.Succeeded())
	require.Equal(t, errz.Success, result.Status)
	require.Equal(t, 0, result.Code)
	require.Equal(t, int64(5), result.Steps)
	require.Empty(t, result.Stack)
	require.NotEqual(t, uuid.Nil, result.RunID)
}

func TestResultStack(t *testing.T) {
	result, err := Eval(context.Background(), "123@")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, result.Stack)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 80, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
	assert.Equal(t, 1024, cfg.StackCapacity)
	assert.Zero(t, cfg.MaxSteps)
	assert.Zero(t, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidateCollectsAllProblems(t *testing.T) {
	cfg := Config{Width: 0, Height: -1, StackCapacity: 1, MaxSteps: -5, Timeout: -time.Second}
	err := cfg.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 5)
	assert.Contains(t, err.Error(), "width must be positive (got 0)")
	assert.Contains(t, err.Error(), "height must be positive (got -1)")
	assert.Contains(t, err.Error(), "stack capacity must be at least 2 (got 1)")
	assert.Contains(t, err.Error(), "max steps must not be negative (got -5)")
	assert.Contains(t, err.Error(), "timeout must not be negative (got -1s)")

	_, err = Load("@", WithConfig(cfg))
	require.Error(t, err)
}

func TestOptionsOverrideConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 3
	prog, err := Load("@", WithConfig(cfg), WithHeight(2))
	require.NoError(t, err)
	assert.Equal(t, 3, prog.Width())
	assert.Equal(t, 2, prog.Height())
}

func TestLoadWidthOverflow(t *testing.T) {
	_, err := Load("1234", WithWidth(3), WithFilename("wide.bf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errz.ErrWidthOverflow))

	var loadErr *errz.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "wide.bf", loadErr.Path)
	assert.Equal(t, "wide.bf: width overflow: row 1 is 4 wide (limit 3)", err.Error())
}

func TestLoadHeightOverflow(t *testing.T) {
	_, err := Load("1\n2\n3", WithHeight(2))
	status, ok := errz.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, errz.HeightOverflow, status)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.bf")
	require.NoError(t, os.WriteFile(path, []byte("\"!iH\",,,@\n"), 0o644))

	prog, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, prog.Filename())
	assert.Equal(t, "\"!iH\",,,@\n", prog.Source())

	var out bytes.Buffer
	_, err = prog.Run(context.Background(), WithOutput(&out))
	require.NoError(t, err)
	assert.Equal(t, "Hi!", out.String())
}

func TestLoadFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.bf")
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errz.ErrOpen))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	status, _ := errz.StatusOf(err)
	assert.Equal(t, 101, status.Code())
}

func TestProgramIsReusable(t *testing.T) {
	// The program overwrites its own first cell, so every run must start from
	// the pristine playfield to print the same thing.
	prog, err := Load(`"@"00p1.@`)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		var out bytes.Buffer
		result, err := prog.Run(context.Background(), WithOutput(&out))
		require.NoError(t, err)
		assert.Equal(t, "1", out.String())
		assert.Equal(t, int64(9), result.Steps)
	}
	assert.Equal(t, byte('"'), prog.Playfield().Read(0, 0))
}

func TestProgramConcurrentRuns(t *testing.T) {
	prog, err := Load("9:*.@")
	require.NoError(t, err)
	var wg sync.WaitGroup
	outputs := make([]bytes.Buffer, 8)
	for i := range outputs {
		wg.Add(1)
		go func(out *bytes.Buffer) {
			defer wg.Done()
			_, err := prog.Run(context.Background(), WithOutput(out))
			assert.NoError(t, err)
		}(&outputs[i])
	}
	wg.Wait()
	for i := range outputs {
		assert.Equal(t, "81", outputs[i].String())
	}
}

func TestProgramConcurrentRunsWithOwnInput(t *testing.T) {
	prog, err := Load("&&+.@")
	require.NoError(t, err)
	var wg sync.WaitGroup
	outputs := make([]bytes.Buffer, 8)
	for i := range outputs {
		wg.Add(1)
		go func(i int, out *bytes.Buffer) {
			defer wg.Done()
			input := vm.NewScriptedInput([]int64{int64(i), 100}, "")
			_, err := prog.Run(context.Background(), WithInput(input), WithOutput(out))
			assert.NoError(t, err)
		}(i, &outputs[i])
	}
	wg.Wait()
	for i := range outputs {
		assert.Equal(t, strconv.Itoa(100+i), outputs[i].String())
	}
}

func TestRunHalts(t *testing.T) {
	tests := []struct {
		name   string
		source string
		opts   []Option
		status errz.Status
	}{
		{"unknown opcode", "1x", nil, errz.UnknownOpcode},
		{"out of range write", "0099*p@", nil, errz.OutOfRangeWrite},
		{"stack overflow", "1234@", []Option{WithStackCapacity(4)}, errz.StackOverflow},
		{"step limit", "", []Option{WithMaxSteps(50)}, errz.Timeout},
		{"wall clock limit", "", []Option{WithTimeout(10 * time.Millisecond)}, errz.Timeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Eval(context.Background(), tt.source, tt.opts...)
			require.Error(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.status.Code(), result.Code)
			assert.False(t, result.Succeeded())

			var halt *errz.HaltError
			require.True(t, errors.As(err, &halt))
			assert.Equal(t, tt.status, halt.Status)
		})
	}
}

func TestRunInput(t *testing.T) {
	var out bytes.Buffer
	_, err := Eval(context.Background(), "&&*.~,@",
		WithInput(vm.NewScriptedInput([]int64{6, 7}, "!")),
		WithOutput(&out))
	require.NoError(t, err)
	assert.Equal(t, "42!", out.String())

	out.Reset()
	_, err = Eval(context.Background(), "&.~,@",
		WithInput(vm.NewReaderInput(strings.NewReader("  12\nz"))),
		WithOutput(&out))
	require.NoError(t, err)
	assert.Equal(t, "12z", out.String())
}

func TestSeedIsReproducible(t *testing.T) {
	// The random opcode sends the IP right to print 1, down to print 2, or
	// around the torus to an end opcode without printing.
	source := "?1.@\n2\n.\n@"
	runWithSeed := func(seed int64) string {
		var out bytes.Buffer
		_, err := Eval(context.Background(), source, WithSeed(seed), WithOutput(&out))
		require.NoError(t, err)
		return out.String()
	}
	seen := map[string]bool{}
	for seed := int64(1); seed <= 20; seed++ {
		first := runWithSeed(seed)
		assert.Equal(t, first, runWithSeed(seed), "seed %d", seed)
		seen[first] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestRunLogsWithRunID(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)
	result, err := Eval(context.Background(), "@", WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"run_id":"`+result.RunID.String()+`"`)
	assert.Contains(t, logs.String(), "run halted")
}

func TestRunObserver(t *testing.T) {
	observer := &countingObserver{}
	_, err := Eval(context.Background(), "12+@", WithObserver(observer))
	require.NoError(t, err)
	assert.Equal(t, 4, observer.steps)
	assert.Equal(t, errz.Success, observer.status)
}

type countingObserver struct {
	vm.NoOpObserver
	steps  int
	status errz.Status
}

func (o *countingObserver) OnStep(vm.StepEvent)      { o.steps++ }
func (o *countingObserver) OnHalt(event vm.HaltEvent) { o.status = event.Status }

func TestRender(t *testing.T) {
	prog, err := Load("1.@", WithWidth(3), WithHeight(1))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, prog.Render(&out, '='))
	assert.Equal(t, "===\n1.@\n===\n", out.String())
}
