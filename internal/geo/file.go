package geo

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/woozymasta/mapdata/internal/fsutil"

	"github.com/rotisserie/eris"
	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
)

const mimeJSON = "application/json"

// SaveOptions controls how a collection is serialized.
type SaveOptions struct {
	Indent string // ignored when Minify is set
	Minify bool
}

// LoadCollection reads a FeatureCollection from disk.
func LoadCollection(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}

	fc, err := ParseCollection(data)
	if err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}

	return fc, nil
}

// ParseCollection decodes a FeatureCollection document.
func ParseCollection(data []byte) (*Collection, error) {
	fc := NewCollection()
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, err
	}
	return fc, nil
}

// Encode serializes the collection according to opts.
func Encode(fc *Collection, opts SaveOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !opts.Minify && opts.Indent != "" {
		enc.SetIndent("", opts.Indent)
	}
	if err := enc.Encode(fc); err != nil {
		return nil, eris.Wrap(err, "encode collection")
	}

	if !opts.Minify {
		return buf.Bytes(), nil
	}

	m := minify.New()
	m.AddFunc(mimeJSON, minjson.Minify)
	out, err := m.Bytes(mimeJSON, buf.Bytes())
	if err != nil {
		return nil, eris.Wrap(err, "minify collection")
	}

	return out, nil
}

// SaveCollection overwrites path with the serialized collection.
// Data goes to a temporary file in the same directory first and is renamed
// over path only once fully written.
func SaveCollection(path string, fc *Collection, opts SaveOptions) error {
	data, err := Encode(fc, opts)
	if err != nil {
		return err
	}

	return fsutil.WriteFile(path, data)
}
