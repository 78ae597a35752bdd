// Package landmark fetches notable landmarks from a SPARQL query service and
// exports them as CSV and GeoJSON.
package landmark

import (
	"fmt"
	"strings"
)

// Query describes which landmarks to select.
type Query struct {
	LandmarkClass string // Wikidata item for landmarks, subclasses included
	CityClass     string // Wikidata item the containing place must be an instance of
	Language      string // label fallback language after [AUTO_LANGUAGE]
	Limit         int    // 0 means no LIMIT clause
}

// DefaultQuery selects the 1000 most linked landmarks located in cities.
func DefaultQuery() Query {
	return Query{
		LandmarkClass: "Q839954",
		CityClass:     "Q515",
		Language:      "en",
		Limit:         1000,
	}
}

// String renders the SPARQL text. Results are ordered by sitelinks so the
// most referenced landmarks come first.
func (q Query) String() string {
	lang := q.Language
	if lang == "" {
		lang = "en"
	}

	var sb strings.Builder
	sb.WriteString("SELECT ?landmark ?landmarkLabel ?coord ?cityLabel ?countryLabel ?sitelinks\n")
	sb.WriteString("WHERE {\n")
	fmt.Fprintf(&sb, "  ?landmark wdt:P31/wdt:P279* wd:%s ;\n", q.LandmarkClass)
	sb.WriteString("            wdt:P625 ?coord ;\n")
	sb.WriteString("            wdt:P131 ?city ;\n")
	sb.WriteString("            wikibase:sitelinks ?sitelinks .\n")
	fmt.Fprintf(&sb, "  ?city wdt:P31/wdt:P279* wd:%s ;\n", q.CityClass)
	sb.WriteString("        wdt:P17 ?country .\n")
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  SERVICE wikibase:label { bd:serviceParam wikibase:language \"[AUTO_LANGUAGE],%s\". }\n", lang)
	sb.WriteString("}\n")
	sb.WriteString("ORDER BY DESC(?sitelinks)\n")
	if q.Limit > 0 {
		fmt.Fprintf(&sb, "LIMIT %d\n", q.Limit)
	}

	return sb.String()
}
