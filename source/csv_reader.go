package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-cancel-accounts/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader loads account ids from one column of a CSV file with a header row.
type CSVReader struct {
	Path   string
	Column string
	Logger core.Logger
}

func NewCSVReader(path string, column string, logger core.Logger) *CSVReader {
	column = strings.TrimSpace(column)
	if column == "" {
		column = core.DefaultSourceColumn
	}
	return &CSVReader{
		Path:   strings.TrimSpace(path),
		Column: column,
		Logger: core.ResolveLogger("source", nil, logger),
	}
}

func (r *CSVReader) ReadIDs(ctx context.Context) ([]core.AccountID, error) {
	if r == nil {
		return nil, core.NewInternalError("source: csv reader is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(r.Path)
	if err != nil {
		return nil, core.NewSourceUnavailableError(err, r.Path)
	}
	defer file.Close()

	ids, duplicates, err := parseIDs(file, r.Path, r.Column)
	if err != nil {
		return nil, err
	}
	for _, id := range duplicates {
		core.LogEvent(ctx, r.Logger, core.LevelWarn, "duplicate account id skipped", map[string]any{
			"account_id": id.String(),
			"path":       r.Path,
		})
	}
	core.LogEvent(ctx, r.Logger, core.LevelInfo, "account list loaded", map[string]any{
		"path":     r.Path,
		"column":   r.Column,
		"accounts": len(ids),
	})
	return ids, nil
}

// ParseIDs reads account ids from column of the CSV in input. Duplicate ids
// keep their first position.
func ParseIDs(input io.Reader, column string) ([]core.AccountID, error) {
	ids, _, err := parseIDs(input, "", column)
	return ids, err
}

func parseIDs(input io.Reader, path string, column string) ([]core.AccountID, []core.AccountID, error) {
	content, err := io.ReadAll(input)
	if err != nil {
		return nil, nil, core.NewSourceUnavailableError(err, path)
	}
	fields := func(line int, extra map[string]any) map[string]any {
		out := core.MergeFields(extra, map[string]any{"column": column, "line": line})
		if path != "" {
			out["path"] = path
		}
		return out
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, core.NewSourceMalformedError(nil, "source: account list has no header row",
			fields(1, nil))
	}
	if err != nil {
		return nil, nil, malformedCSV(err, fields(0, nil))
	}
	index := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, nil, core.NewSourceMalformedError(nil, "source: account list is missing column "+column,
			fields(1, map[string]any{"header": strings.Join(header, ",")}))
	}

	seen := map[core.AccountID]struct{}{}
	ids := []core.AccountID{}
	duplicates := []core.AccountID{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, malformedCSV(err, fields(0, nil))
		}
		line, _ := reader.FieldPos(0)
		if index >= len(record) || strings.TrimSpace(record[index]) == "" {
			return nil, nil, core.NewSourceMalformedError(nil, "source: account id is empty",
				fields(line, nil))
		}
		raw := strings.TrimSpace(record[index])
		id, err := core.ParseAccountID(raw)
		if err != nil {
			return nil, nil, core.NewSourceMalformedError(err, "source: account id is not an integer",
				fields(line, map[string]any{"value": raw}))
		}
		if !id.Valid() {
			return nil, nil, core.NewSourceMalformedError(nil, "source: account id must be positive",
				fields(line, map[string]any{"value": raw}))
		}
		if _, ok := seen[id]; ok {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, duplicates, nil
}

func malformedCSV(err error, metadata map[string]any) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		metadata["line"] = parseErr.Line
	}
	return core.NewSourceMalformedError(err, "source: account list is not valid csv", metadata)
}

var _ core.AccountSource = (*CSVReader)(nil)
