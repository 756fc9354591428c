package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/rubric"
	"github.com/okian/scoutcalc/pkg/logger"
)

// CSVSource reads records from a scouting sheet exported as CSV.
// The header row names the fields; the team and match columns become the
// record identifiers and every other cell is kept as text. Rows whose team or
// match is not a positive integer are skipped with a warning. Blank cells are
// stored as nil so the scorer reports them as missing.
type CSVSource struct {
	path        string
	teamColumn  string
	matchColumn string
}

// CSVOption configures a CSVSource.
type CSVOption func(*CSVSource)

// WithColumns overrides the identifier column names.
func WithColumns(team, match string) CSVOption {
	return func(s *CSVSource) {
		if team != "" {
			s.teamColumn = team
		}
		if match != "" {
			s.matchColumn = match
		}
	}
}

// NewCSVSource creates a source reading path on every call.
func NewCSVSource(path string, opts ...CSVOption) *CSVSource {
	s := &CSVSource{
		path:        path,
		teamColumn:  DefaultTeamColumn,
		matchColumn: DefaultMatchColumn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file the source reads.
func (s *CSVSource) Path() string { return s.path }

// Records implements Source.
func (s *CSVSource) Records(ctx context.Context) ([]model.RawRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	defer f.Close()
	return ReadCSV(ctx, f, s.teamColumn, s.matchColumn)
}

// ReadCSV parses a CSV export from r.
func ReadCSV(ctx context.Context, r io.Reader, teamColumn, matchColumn string) ([]model.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []model.RawRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrReadSource, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	teamIdx, matchIdx := indexOf(header, teamColumn), indexOf(header, matchColumn)
	if teamIdx < 0 || matchIdx < 0 {
		return nil, fmt.Errorf("%w: need %q and %q", ErrMissingColumn, teamColumn, matchColumn)
	}

	records := make([]model.RawRecord, 0)
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrReadSource, line, err)
		}
		if blankRow(row) {
			continue
		}

		team, ok := identifier(ctx, cellAt(row, teamIdx), teamColumn, line)
		if !ok {
			continue
		}
		match, ok := identifier(ctx, cellAt(row, matchIdx), matchColumn, line)
		if !ok {
			continue
		}

		rec := model.RawRecord{
			Team:   team,
			Match:  match,
			Fields: make(map[string]any, len(header)),
		}
		for i, name := range header {
			if i == teamIdx || i == matchIdx || name == "" {
				continue
			}
			if v := strings.TrimSpace(cellAt(row, i)); v != "" {
				rec.Fields[name] = v
			} else {
				rec.Fields[name] = nil
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// identifier parses a team or match cell. Sheets often export integers as
// "254.0". Blank, non-integral and non-positive cells are rejected and the
// row is skipped, so no record is filed under a made-up team or match.
func identifier(ctx context.Context, cell, column string, line int) (int, bool) {
	f, ok := rubric.Numeric(cell)
	if !ok || f != math.Trunc(f) || f < 1 {
		logger.Get().Warn(ctx, "unusable identifier, skipping row",
			logger.String("column", column),
			logger.String("value", cell),
			logger.Int("line", line))
		return 0, false
	}
	return int(f), true
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
