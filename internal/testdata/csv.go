package testdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/okian/scoutcalc/internal/domain/model"
)

// WriteCSV writes records as a scouting sheet export: identifier columns
// first, then every field column in sorted order.
func WriteCSV(w io.Writer, records []model.RawRecord, teamColumn, matchColumn string) error {
	cols := fieldColumns(records)
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{teamColumn, matchColumn}, cols...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(cols)+2)
	for _, r := range records {
		row[0] = strconv.Itoa(r.Team)
		row[1] = strconv.Itoa(r.Match)
		for i, c := range cols {
			row[i+2] = cell(r.Fields[c])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write team %d match %d: %w", r.Team, r.Match, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func fieldColumns(records []model.RawRecord) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		for f := range r.Fields {
			set[f] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for f := range set {
		cols = append(cols, f)
	}
	sort.Strings(cols)
	return cols
}

func cell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
