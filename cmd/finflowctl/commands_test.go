package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/finflow-backend/internal/config"
	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/repository"
	"github.com/baharkarakas/finflow-backend/internal/repository/memory"
)

// shared keeps one memory store across invocations, like a real backend would.
func shared() openFunc {
	set := memory.NewSet(memory.NewStore())
	return func(context.Context, config.Config) (repository.Set, func(), error) {
		return set, func() {}, nil
	}
}

func run(t *testing.T, open openFunc, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := buildRoot(open)
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func TestSeedThenList(t *testing.T) {
	open := shared()
	out := run(t, open, "seed", "--random", "8", "--seed", "5")
	assert.Contains(t, out, "3 accounts, 20 transactions, 0 failed")

	out = run(t, open, "transactions", "--limit", "50", "--json")
	var page models.TransactionPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Empty(t, page.Error)
	assert.Equal(t, 20, page.Pagination.Total)

	out = run(t, open, "tx", "--search", "insurance", "--type", "debit")
	assert.Contains(t, out, "Car Insurance")
}

func TestSummaryWithChart(t *testing.T) {
	open := shared()
	run(t, open, "seed", "--random", "10")

	path := filepath.Join(t.TempDir(), "summary.png")
	out := run(t, open, "summary", "--months", "3", "--chart", path)
	assert.Contains(t, out, "chart saved to")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestTransactions_MissingScope(t *testing.T) {
	out := run(t, shared(), "transactions", "--user", "", "--json")
	var page models.TransactionPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.NotEmpty(t, page.Error)
}
