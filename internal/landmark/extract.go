package landmark

import (
	"fmt"

	"github.com/woozymasta/mapdata/internal/sparql"

	"github.com/rs/zerolog/log"
)

// Result variables read from every binding, in check order.
const (
	VarLandmark = "landmarkLabel"
	VarCoord    = "coord"
	VarCity     = "cityLabel"
	VarCountry  = "countryLabel"
)

// progressEvery is the number of processed rows between progress reports.
const progressEvery = 100

// Landmark is one exported row.
type Landmark struct {
	Name        string `csv:"Landmark"`
	Coordinates string `csv:"Coordinates"` // WKT point, e.g. "Point(2.2945 48.8583)"
	City        string `csv:"City"`
	Country     string `csv:"Country"`
}

// MissingFieldError reports a result row that lacks a required variable.
type MissingFieldError struct {
	Field    string
	Position int // 1-based row number in the result set
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("item %d: missing field %q", e.Position, e.Field)
}

// ProgressFunc receives the number of processed rows out of total.
type ProgressFunc func(done, total int)

// LogProgress reports progress through the global logger.
func LogProgress(done, total int) {
	log.Info().
		Int("processed", done).
		Int("total", total).
		Msgf("Processed %d/%d landmarks", done, total)
}

// Extract projects result rows into landmarks. Rows missing any required
// variable are skipped with a warning and returned as errors. progress is
// called after a kept row whose position is a multiple of 100 or the last
// one; skipped rows never report. nil disables it.
func Extract(bindings []sparql.Binding, progress ProgressFunc) ([]Landmark, []*MissingFieldError) {
	total := len(bindings)
	rows := make([]Landmark, 0, total)
	var skipped []*MissingFieldError

	for i, b := range bindings {
		pos := i + 1

		lm, err := fromBinding(b, pos)
		if err != nil {
			log.Warn().
				Int("item", pos).
				Str("field", err.Field).
				Msg("Skipped item due to missing field")
			skipped = append(skipped, err)
			continue
		}

		rows = append(rows, lm)
		if progress != nil && (pos%progressEvery == 0 || pos == total) {
			progress(pos, total)
		}
	}

	return rows, skipped
}

func fromBinding(b sparql.Binding, pos int) (Landmark, *MissingFieldError) {
	var values [4]string
	for i, name := range []string{VarLandmark, VarCoord, VarCity, VarCountry} {
		v, ok := b.Value(name)
		if !ok {
			return Landmark{}, &MissingFieldError{Position: pos, Field: name}
		}
		values[i] = v
	}

	return Landmark{
		Name:        values[0],
		Coordinates: values[1],
		City:        values[2],
		Country:     values[3],
	}, nil
}
