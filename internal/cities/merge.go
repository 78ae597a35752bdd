// Package cities merges city point records into a GeoJSON feature collection.
package cities

import (
	"encoding/json"
	"os"

	"github.com/woozymasta/mapdata/internal/geo"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// DefaultNameProperty is the feature property holding the city name.
const DefaultNameProperty = "NAME"

// City is one record of the input list.
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// cityRecord mirrors City with pointers so absent keys can be told apart
// from zero values.
type cityRecord struct {
	Name *string  `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

// Load reads a JSON array of cities. Every record must carry name, lat and
// lng; the first incomplete record fails the whole load.
func Load(path string) ([]City, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}

	var records []cityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}

	list := make([]City, 0, len(records))
	for i, r := range records {
		switch {
		case r.Name == nil:
			return nil, eris.Errorf("parse %s: city %d: missing %q", path, i, "name")
		case r.Lat == nil:
			return nil, eris.Errorf("parse %s: city %d: missing %q", path, i, "lat")
		case r.Lng == nil:
			return nil, eris.Errorf("parse %s: city %d: missing %q", path, i, "lng")
		}
		list = append(list, City{Name: *r.Name, Lat: *r.Lat, Lng: *r.Lng})
	}

	return list, nil
}

// Options tunes Merge.
type Options struct {
	NameProperty string // defaults to NAME

	// DedupeIncoming also drops repeated names within the new list itself.
	// Without it only names already present in the collection are filtered.
	DedupeIncoming bool
}

// Merge appends a point feature for every city whose name is not already used
// by a feature of fc and returns how many were added. The set of existing
// names is computed once before anything is appended.
func Merge(fc *geo.Collection, list []City, opts Options) (int, error) {
	prop := opts.NameProperty
	if prop == "" {
		prop = DefaultNameProperty
	}

	existing, err := fc.Names(prop)
	if err != nil {
		return 0, eris.Wrap(err, "collect existing names")
	}

	log.Debug().
		Int("existing", len(existing)).
		Int("incoming", len(list)).
		Msg("Merging cities")

	var seen map[string]struct{}
	if opts.DedupeIncoming {
		seen = make(map[string]struct{}, len(list))
	}

	added := make([]geo.Feature, 0, len(list))
	for _, c := range list {
		if _, dup := existing[c.Name]; dup {
			log.Trace().Str("city", c.Name).Msg("City already present, skipping")
			continue
		}
		if seen != nil {
			if _, dup := seen[c.Name]; dup {
				log.Trace().Str("city", c.Name).Msg("City repeated in input, skipping")
				continue
			}
			seen[c.Name] = struct{}{}
		}

		added = append(added, geo.NewPoint(c.Lng, c.Lat, map[string]any{prop: c.Name}))
	}

	if err := fc.Append(added...); err != nil {
		return 0, err
	}

	return len(added), nil
}

// MergeFile loads the collection at geoPath and the city list at citiesPath,
// merges them and overwrites geoPath with the result.
func MergeFile(geoPath, citiesPath string, opts Options, save geo.SaveOptions) (int, error) {
	fc, err := geo.LoadCollection(geoPath)
	if err != nil {
		return 0, err
	}

	list, err := Load(citiesPath)
	if err != nil {
		return 0, err
	}

	before := fc.Len()
	added, err := Merge(fc, list, opts)
	if err != nil {
		return 0, eris.Wrapf(err, "merge into %s", geoPath)
	}

	if err := geo.SaveCollection(geoPath, fc, save); err != nil {
		return 0, err
	}

	log.Info().
		Str("path", geoPath).
		Int("before", before).
		Int("added", added).
		Int("skipped", len(list)-added).
		Msg("Cities merged")

	return added, nil
}
