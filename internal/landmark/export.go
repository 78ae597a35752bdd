package landmark

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"

	"github.com/woozymasta/mapdata/internal/fsutil"
	"github.com/woozymasta/mapdata/internal/geo"
	"github.com/woozymasta/mapdata/internal/sparql"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// Querier runs a SPARQL query.
type Querier interface {
	Query(ctx context.Context, query string) (*sparql.Results, error)
}

// Summary describes a finished export.
type Summary struct {
	Landmarks []Landmark
	Skipped   []*MissingFieldError
	Total     int
}

// Fetch runs q and extracts the landmarks from the result set.
func Fetch(ctx context.Context, client Querier, q Query, progress ProgressFunc) (*Summary, error) {
	log.Info().Msg("Sending SPARQL query")

	res, err := client.Query(ctx, q.String())
	if err != nil {
		return nil, err
	}

	bindings := res.Bindings()
	log.Info().Int("results", len(bindings)).Msg("Parsing response")

	rows, skipped := Extract(bindings, progress)

	return &Summary{
		Landmarks: rows,
		Skipped:   skipped,
		Total:     len(bindings),
	}, nil
}

// WriteCSV writes the header and one line per landmark. The header is
// written even when rows is empty.
func WriteCSV(w io.Writer, rows []Landmark) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if err := enc.EncodeHeader(Landmark{}); err != nil {
		return eris.Wrap(err, "csv: encode header")
	}
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return eris.Wrapf(err, "csv: encode %q", row.Name)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "csv: flush")
	}

	return nil
}

// SaveCSV overwrites path with the CSV table.
func SaveCSV(path string, rows []Landmark) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return err
	}

	return fsutil.WriteFile(path, buf.Bytes())
}

// ToCollection converts landmarks into point features. Rows whose coordinate
// is not a WKT point are left out and counted.
func ToCollection(rows []Landmark, nameProp string) (*geo.Collection, int, error) {
	fc := geo.NewCollection()
	skipped := 0

	for _, row := range rows {
		lon, lat, err := geo.ParseWKTPoint(row.Coordinates)
		if err != nil {
			log.Warn().
				Err(err).
				Str("landmark", row.Name).
				Msg("Skipped landmark with unusable coordinates")
			skipped++
			continue
		}

		feature := geo.NewPoint(lon, lat, map[string]any{
			nameProp:  row.Name,
			"city":    row.City,
			"country": row.Country,
		})
		if err := fc.Append(feature); err != nil {
			return nil, skipped, err
		}
	}

	return fc, skipped, nil
}

// ExportOptions selects the output files of Export.
type ExportOptions struct {
	CSVPath      string
	GeoJSONPath  string // optional
	NameProperty string // GeoJSON name property, defaults to NAME
	GeoJSON      geo.SaveOptions
	Progress     ProgressFunc
}

// Export fetches the landmarks and writes the CSV table and, if requested,
// the GeoJSON collection. Nothing is written when the query fails.
func Export(ctx context.Context, client Querier, q Query, opts ExportOptions) (*Summary, error) {
	sum, err := Fetch(ctx, client, q, opts.Progress)
	if err != nil {
		return nil, err
	}

	log.Info().Str("path", opts.CSVPath).Msg("Saving landmarks")
	if err := SaveCSV(opts.CSVPath, sum.Landmarks); err != nil {
		return nil, eris.Wrapf(err, "save %s", opts.CSVPath)
	}

	if opts.GeoJSONPath == "" {
		return sum, nil
	}

	nameProp := opts.NameProperty
	if nameProp == "" {
		nameProp = "NAME"
	}

	fc, _, err := ToCollection(sum.Landmarks, nameProp)
	if err != nil {
		return nil, err
	}
	if err := geo.SaveCollection(opts.GeoJSONPath, fc, opts.GeoJSON); err != nil {
		return nil, eris.Wrapf(err, "save %s", opts.GeoJSONPath)
	}

	return sum, nil
}
