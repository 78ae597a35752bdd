package geo

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// ParseWKTPoint parses a well-known-text point such as "Point(2.2945 48.8583)"
// into longitude and latitude. A leading globe IRI, as emitted by Wikidata for
// non-Earth coordinates, is ignored.
func ParseWKTPoint(s string) (lon, lat float64, err error) {
	upper := strings.ToUpper(s)
	idx := strings.Index(upper, "POINT")
	if idx < 0 {
		return 0, 0, eris.Errorf("not a WKT point: %q", s)
	}

	g, err := wkt.Unmarshal("POINT" + s[idx+len("POINT"):])
	if err != nil {
		return 0, 0, eris.Wrapf(err, "parse WKT %q", s)
	}

	p, ok := g.(*geom.Point)
	if !ok {
		return 0, 0, eris.Errorf("not a WKT point: %q", s)
	}
	if len(p.FlatCoords()) < 2 {
		return 0, 0, eris.Errorf("empty WKT point: %q", s)
	}

	return p.X(), p.Y(), nil
}
