package gapfill_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/mashiike/gapfill"
	"github.com/mashiike/gapfill/internal/logger"
	"github.com/stretchr/testify/require"
)

func loadTableFromString(t *testing.T, s string) *gapfill.Table {
	t.Helper()
	table, err := gapfill.ReadCSV(strings.NewReader(s))
	require.NoError(t, err)
	return table
}

func tableToString(t *testing.T, table *gapfill.Table) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))
	return buf.String()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(bs)
}

// captureLog routes the logger into a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Setup(&buf, "debug")
	t.Cleanup(func() {
		t.Log(buf.String())
		logger.Setup(os.Stderr, "info")
	})
	return &buf
}
