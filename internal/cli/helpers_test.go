package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/testutil"
)

var testStart = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// cliEnv runs commands against one temp database with a deterministic clock
// and deterministic IDs shared across invocations.
type cliEnv struct {
	t          *testing.T
	dbPath     string
	configPath string
	clock      *testutil.DeterministicClock
	ids        *testutil.SequenceIDs
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "stockroom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("default_threshold: 5\nnotifications: terminal\n"), 0644))

	return &cliEnv{
		t:          t,
		dbPath:     filepath.Join(dir, "stock.db"),
		configPath: configPath,
		clock:      testutil.NewDeterministicClock(testStart, time.Minute),
		ids:        testutil.NewSequenceIDs("id"),
	}
}

// run executes the root command with args and returns stdout and stderr.
func (e *cliEnv) run(args ...string) (string, string, error) {
	return e.runWithInput(nil, args...)
}

func (e *cliEnv) runWithInput(stdin io.Reader, args ...string) (string, string, error) {
	e.t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := NewRootCommandWith(&RootOptions{Clock: e.clock, IDs: e.ids})
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(append([]string{"--config", e.configPath, "--db", e.dbPath}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun executes args and fails the test on error.
func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	stdout, stderr, err := e.run(args...)
	require.NoError(e.t, err, "stockroom %s\nstderr: %s", strings.Join(args, " "), stderr)
	return stdout
}

// seed creates the shared fixture:
//
//	id-0001 A4 Notebook  20 @ 5.00, threshold 5
//	id-0002 Gel Pen      40 @ 1.50, threshold 10
//	id-0003 Eraser        3 @ 0.50, threshold 5 (config default)
//	id-0004 sale of 18 A4 Notebook
//	id-0005 restock of 10 Gel Pen at 1.20
//	id-0006 sale of 1 Eraser
func (e *cliEnv) seed() {
	e.t.Helper()
	e.mustRun("add", "A4 Notebook", "--category", "Paper", "--quantity", "20", "--price", "5", "--threshold", "5")
	e.mustRun("add", "Gel Pen", "--category", "Pens", "--quantity", "40", "--price", "1.5", "--threshold", "10")
	e.mustRun("add", "Eraser", "--quantity", "3", "--price", "0.5")
	e.mustRun("sell", "id-0001", "18")
	e.mustRun("restock", "id-0002", "10", "--price", "1.2")
	e.mustRun("sell", "id-0003", "1")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
