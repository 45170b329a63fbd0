package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"drive-activity-notifier/internal/models"

	"github.com/olekukonko/tablewriter"
	"google.golang.org/api/drive/v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"

	channelTimeLayout = "2006-01-02 15:04:05 MST"
)

var ErrUnknownOutputFormat = errors.New("output format must be 'table' or 'json'")

// tableRenderer is implemented by results that have a tabular form.
type tableRenderer interface {
	Headers() []string
	Rows() [][]string
	EmptyMessage() string
}

type outputFormatter struct {
	writer io.Writer
	format string
	pretty bool
}

func newOutputFormatter(w io.Writer, format string, pretty bool) (*outputFormatter, error) {
	if format != outputTable && format != outputJSON {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutputFormat, format)
	}
	return &outputFormatter{writer: w, format: format, pretty: pretty}, nil
}

// write renders v as a table when it has a tabular form and table output was
// requested, and as JSON otherwise.
func (f *outputFormatter) write(v any) error {
	if renderer, ok := v.(tableRenderer); ok && f.format == outputTable {
		return f.renderTable(renderer)
	}

	var data []byte
	var err error
	if f.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(f.writer, string(data))
	return err
}

func (f *outputFormatter) renderTable(renderer tableRenderer) error {
	rows := renderer.Rows()
	if len(rows) == 0 {
		_, err := fmt.Fprintln(f.writer, renderer.EmptyMessage())
		return err
	}

	table := tablewriter.NewWriter(f.writer)
	table.SetHeader(renderer.Headers())
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, row := range rows {
		table.Append(row)
	}

	table.Render()
	return nil
}

type driveTable []*drive.Drive

func (t driveTable) Headers() []string    { return []string{"ID", "Name"} }
func (t driveTable) EmptyMessage() string { return "No drives found." }
func (t driveTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, d := range t {
		rows = append(rows, []string{d.Id, d.Name})
	}
	return rows
}

type fileTable []*drive.File

func (t fileTable) Headers() []string    { return []string{"Kind", "ID", "Name", "Extension", "Size"} }
func (t fileTable) EmptyMessage() string { return "No files found." }
func (t fileTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, f := range t {
		size := ""
		if f.Size > 0 {
			size = strconv.FormatInt(f.Size, 10)
		}
		rows = append(rows, []string{f.Kind, f.Id, f.Name, f.FileExtension, size})
	}
	return rows
}

// parentTable lists a file followed by its ancestors.
type parentTable []*drive.File

func (t parentTable) Headers() []string    { return []string{"Depth", "ID", "Name", "MIME Type"} }
func (t parentTable) EmptyMessage() string { return "No parents found." }
func (t parentTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for i, f := range t {
		rows = append(rows, []string{strconv.Itoa(i), f.Id, f.Name, f.MimeType})
	}
	return rows
}

type channelTable []*models.WatchChannel

func (t channelTable) Headers() []string {
	return []string{"Channel ID", "Kind", "Target", "Resource ID", "Expires", "Address"}
}
func (t channelTable) EmptyMessage() string { return "No watch channels registered." }
func (t channelTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, c := range t {
		rows = append(rows, []string{c.ID, c.Kind, c.TargetID, c.ResourceID, formatExpiration(c.Expiration), c.Address})
	}
	return rows
}

func formatExpiration(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(channelTimeLayout)
}
