package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cognicore/rectsolve/pkg/rectsolve/config"
	"github.com/cognicore/rectsolve/pkg/rectsolve/rect"
	"github.com/cognicore/rectsolve/pkg/rectsolve/trace"
)

// setupGlobals loads the default components the way PersistentPreRunE does.
func setupGlobals(t *testing.T) {
	t.Helper()
	loader := config.Loader{}
	comps, err := loader.Load()
	require.NoError(t, err)
	components = comps
	logger = zaptest.NewLogger(t)
	t.Cleanup(func() {
		components = nil
		logger = nil
	})
}

// newCommand builds a fresh command so flag state does not leak between tests.
func newCommand(t *testing.T, register func(*pflag.FlagSet), args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{}
	register(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse(args))
	cmd.SetContext(context.Background())
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	return cmd, out
}

func TestParsePair(t *testing.T) {
	a, b, err := parsePair("3:4")
	require.NoError(t, err)
	assert.Equal(t, [2]float64{3, 4}, [2]float64{a, b})

	a, b, err = parsePair(" 2.5 , 6 ")
	require.NoError(t, err)
	assert.Equal(t, [2]float64{2.5, 6}, [2]float64{a, b})

	for _, bad := range []string{"", "3", "3:4:5", "x:4"} {
		_, _, err := parsePair(bad)
		assert.Error(t, err, bad)
	}
}

func TestFactsFromFlags(t *testing.T) {
	cmd, _ := newCommand(t, addFactFlags,
		"--side-x", "5", "--area", "50", "--ratio", "1:2", "-t", "sides", "--target", "circumscribed_circle_radius")

	facts, err := factsFromFlags(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, rect.Known(5), facts.SideX)
	assert.False(t, facts.SideY.Known())
	assert.Equal(t, rect.Single(50), facts.Traits[rect.Area])
	assert.Equal(t, rect.Pair(1, 2), facts.Traits[rect.Ratio])
	assert.Len(t, facts.Traits, 2, "unset flags must not become facts")

	targets, err := targetsFromFlags(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, []rect.Target{rect.Sides, rect.TargetCircumscribedCircleRadius}, targets)
}

func TestFactsFromFlagsErrors(t *testing.T) {
	cmd, _ := newCommand(t, addFactFlags, "--distances", "3")
	_, err := factsFromFlags(cmd.Flags())
	assert.ErrorContains(t, err, "--distances")

	cmd, _ = newCommand(t, addFactFlags, "--target", "volume")
	_, err = targetsFromFlags(cmd.Flags())
	assert.Error(t, err)
}

func TestRunSolveFacts(t *testing.T) {
	setupGlobals(t)
	jsonPath := filepath.Join(t.TempDir(), "trace.json")

	cmd, out := newCommand(t, addSolveFlags,
		"--perimeter", "28", "--ratio", "3:4", "--target", "area", "--json", jsonPath)
	require.NoError(t, runSolve(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "\n\n1. Init\n", "trace should open with Init")
	assert.NotContains(t, text, "Found sides using perimeter and ratio", "ratio seeding happens before Init")
	assert.Contains(t, text, "2. Found area using sides")
	assert.Regexp(t, `Area: (48|47\.9999\d*|48\.0000\d*)\n`, text)
	assert.Contains(t, text, "All targets resolved.")

	f, err := os.Open(jsonPath)
	require.NoError(t, err)
	defer f.Close()
	steps, err := trace.ReadJSON(f)
	require.NoError(t, err)
	require.NotEmpty(t, steps)
	assert.Equal(t, trace.InitLabel, steps[0].Label)
	assert.InDelta(t, 6, steps[0].Snapshot.Width.Value(), 1e-9)
	assert.InDelta(t, 8, steps[0].Snapshot.Height.Value(), 1e-9)
	assert.Equal(t, trace.FinalLabel, steps[len(steps)-1].Label)
}

func TestRunSolveText(t *testing.T) {
	setupGlobals(t)

	cmd, out := newCommand(t, addSolveFlags)
	err := runSolve(cmd, []string{
		"Find the circumference of the circumscribed circle",
		"if the perimeter is 28 cm and the sides are in ratio 3:4",
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Task: Find the circumference")
	assert.Contains(t, text, "Targets: CircumscribedCirclePerimeter")
	assert.Contains(t, text, "CircumscribedCirclePerimeter: 31.4159")
}

func TestRunSolveUnresolved(t *testing.T) {
	setupGlobals(t)

	cmd, out := newCommand(t, addSolveFlags, "--ratio", "3:4", "--target", "area")
	require.NoError(t, runSolve(cmd, nil))
	assert.Contains(t, out.String(), "Unresolved:")
	assert.Contains(t, out.String(), "Area")
}

func TestRunSolveWithoutTargets(t *testing.T) {
	setupGlobals(t)

	cmd, _ := newCommand(t, addSolveFlags, "--area", "12")
	assert.Error(t, runSolve(cmd, nil))
}

func TestRunBatch(t *testing.T) {
	setupGlobals(t)
	input := filepath.Join(t.TempDir(), "tasks.jsonl")
	content := strings.Join([]string{
		`{"id": "typed", "facts": {"traits": {"Ratio": [3, 4], "Perimeter": 28}}, "targets": ["Area"]}`,
		`{"id": "stuck", "facts": {"traits": {"Ratio": [3, 4]}}, "targets": ["Area"]}`,
		`{"id": "text", "text": "Find the circumference of the circumscribed circle if the perimeter is 28 cm and the sides are in ratio 3:4"}`,
		`{"id": "empty", "facts": {"side_x": 3}}`,
	}, "\n")
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))

	cmd, out := newCommand(t, addBatchFlags, "--input", input, "--metrics")
	require.NoError(t, runBatch(cmd, nil))

	text := out.String()
	assert.Regexp(t, `typed\s+resolved`, text)
	assert.Regexp(t, `stuck\s+unresolved \(1\)`, text)
	assert.Regexp(t, `text\s+resolved`, text)
	assert.Regexp(t, `empty\s+error: `, text)
	assert.Contains(t, text, "4 tasks, 1 failed")
	assert.Contains(t, text, `rectsolve_solves_total{outcome="resolved"} 2`)
	assert.Contains(t, text, `rectsolve_solves_total{outcome="unresolved"} 1`)
}

func TestRunBatchMissingFile(t *testing.T) {
	setupGlobals(t)

	cmd, _ := newCommand(t, addBatchFlags, "--input", filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, runBatch(cmd, nil))
}

func TestRunExplain(t *testing.T) {
	setupGlobals(t)

	cmd, out := newCommand(t, addFactFlags, "--ratio", "3:4", "--target", "area", "--target", "sides")
	require.NoError(t, runExplain(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "Area: no")
	assert.Contains(t, text, "Sides: no")

	cmd, out = newCommand(t, addFactFlags, "--ratio", "3:4", "--perimeter", "28", "--target", "area")
	require.NoError(t, runExplain(cmd, nil))
	assert.Contains(t, out.String(), "Area: yes")
}

func addLimitFlag(fs *pflag.FlagSet) {
	fs.IntP("limit", "n", 20, "")
}

func noFlags(*pflag.FlagSet) {}

func TestSessionsWithSQLite(t *testing.T) {
	setupGlobals(t)
	components.Config.Store = config.StoreConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "sessions.db"),
	}

	cmd, out := newCommand(t, addSolveFlags, "--side-x", "3", "--side-y", "4", "--target", "diagonal", "--save")
	require.NoError(t, runSolve(cmd, nil))
	header, _, _ := strings.Cut(out.String(), "\n")
	id := strings.TrimPrefix(header, "Session ")
	require.Len(t, id, 26)

	cmd, out = newCommand(t, addLimitFlag)
	require.NoError(t, runSessionsList(cmd, nil))
	assert.Contains(t, out.String(), id)

	cmd, out = newCommand(t, noFlags)
	require.NoError(t, runSessionsShow(cmd, []string{id}))
	assert.Contains(t, out.String(), "Found diagonal using sides")
	assert.Contains(t, out.String(), "Diagonal: 5")

	cmd, _ = newCommand(t, noFlags)
	err := runSessionsShow(cmd, []string{"missing"})
	assert.ErrorContains(t, err, "not found")
}

func TestSessionsMemoryStoreIsEmpty(t *testing.T) {
	setupGlobals(t)

	cmd, out := newCommand(t, addLimitFlag)
	require.NoError(t, runSessionsList(cmd, nil))
	assert.Contains(t, out.String(), "No sessions found.")
}
