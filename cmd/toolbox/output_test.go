package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"drive-activity-notifier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutputFormatter_RejectsUnknownFormat(t *testing.T) {
	f, err := newOutputFormatter(&bytes.Buffer{}, "yaml", false)
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrUnknownOutputFormat)
}

func TestOutputFormatter_Table(t *testing.T) {
	var buf bytes.Buffer
	f, err := newOutputFormatter(&buf, outputTable, false)
	require.NoError(t, err)

	require.NoError(t, f.write(driveTable{
		{Id: "0A1", Name: "Team"},
		{Id: "0A2", Name: "Ops"},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[1], "0A1")
	assert.Contains(t, lines[1], "Team")
	assert.Contains(t, lines[2], "Ops")
}

func TestOutputFormatter_EmptyTable(t *testing.T) {
	tests := []struct {
		name     string
		value    tableRenderer
		expected string
	}{
		{"drives", driveTable{}, "No drives found."},
		{"files", fileTable{}, "No files found."},
		{"parents", parentTable{}, "No parents found."},
		{"channels", channelTable{}, "No watch channels registered."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f, err := newOutputFormatter(&buf, outputTable, false)
			require.NoError(t, err)

			require.NoError(t, f.write(tt.value))
			assert.Equal(t, tt.expected+"\n", buf.String())
		})
	}
}

func TestOutputFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	f, err := newOutputFormatter(&buf, outputJSON, false)
	require.NoError(t, err)

	require.NoError(t, f.write(driveTable{{Id: "0A1", Name: "Team"}}))
	assert.JSONEq(t, `[{"id":"0A1","name":"Team"}]`, buf.String())
}

func TestOutputFormatter_NonTabularFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	f, err := newOutputFormatter(&buf, outputTable, true)
	require.NoError(t, err)

	require.NoError(t, f.write(map[string]string{"kind": "edit"}))
	assert.Equal(t, "{\n  \"kind\": \"edit\"\n}\n", buf.String())
}

func TestTableRows(t *testing.T) {
	files := fileTable{{Kind: "drive#file", Id: "f1", Name: "Budget", FileExtension: "xlsx", Size: 2048}, {Id: "f2", Name: "Doc"}}
	assert.Equal(t, [][]string{
		{"drive#file", "f1", "Budget", "xlsx", "2048"},
		{"", "f2", "Doc", "", ""},
	}, files.Rows())

	parents := parentTable{{Id: "f1", Name: "Report", MimeType: "application/pdf"}, {Id: "0A1", Name: "Team"}}
	assert.Equal(t, [][]string{
		{"0", "f1", "Report", "application/pdf"},
		{"1", "0A1", "Team", ""},
	}, parents.Rows())

	channels := channelTable{
		{ID: "c1", Kind: models.ChannelKindFile, TargetID: "f1", ResourceID: "r1",
			Expiration: time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC), Address: "https://example.com/hook"},
		{ID: "c2", Kind: models.ChannelKindDrive, TargetID: "0A1", ResourceID: "r2", Address: "https://example.com/hook"},
	}
	assert.Equal(t, [][]string{
		{"c1", "file", "f1", "r1", "2024-01-02 10:00:00 UTC", "https://example.com/hook"},
		{"c2", "drive", "0A1", "r2", "-", "https://example.com/hook"},
	}, channels.Rows())
}

func TestRootCommand_RegistersToolboxCommands(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{}, strings.NewReader(""))

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, expected := range []string{
		"list-drives", "list-files", "file-parents", "watch-drive", "watch-file",
		"list-channels", "stop-channel", "list-changes", "query-activity", "resolve-email",
	} {
		assert.Contains(t, names, expected)
	}
}

func TestConfirmStop(t *testing.T) {
	require.NoError(t, confirmStop(strings.NewReader("STOP\n"), "c1"))
	assert.ErrorIs(t, confirmStop(strings.NewReader("no\n"), "c1"), ErrOperationCancelled)
	assert.Error(t, confirmStop(strings.NewReader(""), "c1"))
}
