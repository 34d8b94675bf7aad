package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecrtools/combridge/internal/audit"
)

func runHistoryCommand(t *testing.T, flags ...string) (string, error) {
	t.Helper()

	cmd := NewHistoryCommand(&RootOptions{})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(flags)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestHistory_ListsNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	store, err := audit.Open(path)
	require.NoError(t, err)

	base := time.Date(2025, 5, 22, 12, 33, 44, 0, time.UTC)
	_, err = store.Record(audit.Invocation{
		CreatedAt:  base,
		ProgID:     "ECR2ATL.ECR2Transaction",
		Method:     "Cancellation",
		Outcome:    "ok",
		DurationMS: 120,
	})
	require.NoError(t, err)
	_, err = store.Record(audit.Invocation{
		CreatedAt: base.Add(time.Minute),
		ProgID:    "ECR2ATL.ECR2Transaction",
		Method:    "Sale",
		Outcome:   "InvocationError",
		Code:      50,
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	stdout, err := runHistoryCommand(t, "--db", path)
	require.NoError(t, err)

	lines := bytes.Split([]byte(stdout), []byte("\n"))
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, string(lines[0]), "ECR2ATL.ECR2Transaction.Sale")
	assert.Contains(t, string(lines[0]), "InvocationError (code=50")
	assert.Contains(t, string(lines[1]), "ECR2ATL.ECR2Transaction.Cancellation")
	assert.Contains(t, string(lines[1]), "ok (code=0, 120ms)")
}

func TestHistory_Limit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	store, err := audit.Open(path)
	require.NoError(t, err)
	base := time.Date(2025, 5, 22, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err = store.Record(audit.Invocation{
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			ProgID:    "Test.Object",
			Method:    "Ping",
			Outcome:   "ok",
		})
		require.NoError(t, err)
	}
	require.NoError(t, store.Close())

	stdout, err := runHistoryCommand(t, "--db", path, "--limit", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count([]byte(stdout), []byte("\n")))
}

func TestHistory_RequiresDatabaseFlag(t *testing.T) {
	_, err := runHistoryCommand(t)
	require.Error(t, err)
}
