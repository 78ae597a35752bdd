// Package geo handles GeoJSON feature collections and coordinate parsing.
package geo

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

const (
	typeFeatureCollection = "FeatureCollection"
	typeFeature           = "Feature"
	typePoint             = "Point"
)

// Feature represents a single geographic feature with geometry and properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry represents a point geometry.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [Lon, Lat]
}

// NewPoint builds a point feature at lon/lat with the given properties.
func NewPoint(lon, lat float64, props map[string]any) Feature {
	if props == nil {
		props = map[string]any{}
	}
	return Feature{
		Type: typeFeature,
		Geometry: Geometry{
			Type:        typePoint,
			Coordinates: []float64{lon, lat},
		},
		Properties: props,
	}
}

// Collection is a GeoJSON FeatureCollection that round-trips existing content.
// Features already present are kept as raw JSON. Every other top-level member,
// "type" included, is written back verbatim, and all members keep the
// position they had in the parsed document.
type Collection struct {
	members  map[string]json.RawMessage
	order    []string // member names, memberFeatures included
	features []json.RawMessage
}

const (
	memberType     = "type"
	memberFeatures = "features"
)

// NewCollection returns an empty feature collection.
func NewCollection() *Collection {
	return &Collection{
		members: map[string]json.RawMessage{
			memberType: json.RawMessage(`"` + typeFeatureCollection + `"`),
		},
		order: []string{memberType, memberFeatures},
	}
}

// Len returns the number of features.
func (c *Collection) Len() int {
	return len(c.features)
}

// Feature returns the raw JSON of the i-th feature.
func (c *Collection) Feature(i int) json.RawMessage {
	return c.features[i]
}

// Append adds features to the end of the collection.
func (c *Collection) Append(features ...Feature) error {
	for _, f := range features {
		raw, err := json.Marshal(f)
		if err != nil {
			return eris.Wrap(err, "marshal feature")
		}
		c.features = append(c.features, raw)
	}
	return nil
}

// Names returns the set of string values of the prop property over all
// features. A feature without properties or without prop is malformed.
func (c *Collection) Names(prop string) (map[string]struct{}, error) {
	names := make(map[string]struct{}, len(c.features))

	for i, raw := range c.features {
		var f struct {
			Properties map[string]json.RawMessage `json:"properties"`
		}
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, eris.Wrapf(err, "feature %d", i)
		}
		if f.Properties == nil {
			return nil, eris.Errorf("feature %d: no properties", i)
		}
		value, ok := f.Properties[prop]
		if !ok {
			return nil, eris.Errorf("feature %d: missing %q property", i, prop)
		}

		// non-string names can never equal a city name
		var name *string
		if json.Unmarshal(value, &name) == nil && name != nil {
			names[*name] = struct{}{}
		}
	}

	return names, nil
}

// UnmarshalJSON parses a FeatureCollection, keeping member order.
func (c *Collection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "read collection")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return eris.New("feature collection is not a JSON object")
	}

	members := map[string]json.RawMessage{}
	var order []string
	var features json.RawMessage

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "read member name")
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return eris.Wrapf(err, "read member %q", key)
		}

		_, seen := members[key]
		if key == memberFeatures {
			seen = features != nil
			features = raw
		} else {
			members[key] = raw
		}
		if !seen {
			order = append(order, key)
		}
	}

	if features == nil {
		return eris.New(`feature collection has no "features" member`)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(features, &list); err != nil || bytes.Equal(bytes.TrimSpace(features), []byte("null")) {
		return eris.New(`"features" is not an array`)
	}

	c.members = members
	c.order = order
	c.features = list
	return nil
}

// MarshalJSON writes the members in their recorded order. A collection
// that was never parsed gets "type" first and "features" last.
func (c *Collection) MarshalJSON() ([]byte, error) {
	if c.order == nil {
		empty := NewCollection()
		empty.features = c.features
		c = empty
	}

	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		if key == memberFeatures {
			c.writeFeatures(&buf)
		} else {
			buf.Write(c.members[key])
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Collection) writeFeatures(buf *bytes.Buffer) {
	buf.WriteByte('[')
	for i, raw := range c.features {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
}
