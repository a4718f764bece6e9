package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yourname/gdrive_lite/internal/models"
)

func TestPrintFiles(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	files := []models.StoredFileRecord{
		{File: "plips.jpg", Size: "1.56 MB", Owner: "alice", LastModified: now.Add(-2 * time.Hour)},
	}

	var buf bytes.Buffer
	require.NoError(t, printFiles(&buf, files, now))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "FILE"))
	require.Contains(t, lines[1], "plips.jpg")
	require.Contains(t, lines[1], "1.56 MB")
	require.Contains(t, lines[1], "2 hours ago")
}
