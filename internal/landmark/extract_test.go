package landmark

import (
	"fmt"
	"testing"

	"github.com/woozymasta/mapdata/internal/sparql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binding(name, coord, city, country string) sparql.Binding {
	b := sparql.Binding{}
	set := func(key, value string) {
		if value != "" {
			b[key] = sparql.Term{Type: "literal", Value: &value}
		}
	}
	set(VarLandmark, name)
	set(VarCoord, coord)
	set(VarCity, city)
	set(VarCountry, country)
	return b
}

func TestExtract_AllValid(t *testing.T) {
	bindings := []sparql.Binding{
		binding("Eiffel Tower", "Point(2.2945 48.8583)", "Paris", "France"),
		binding("Colosseum", "Point(12.4922 41.8902)", "Rome", "Italy"),
	}

	rows, skipped := Extract(bindings, nil)
	assert.Empty(t, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, Landmark{
		Name:        "Eiffel Tower",
		Coordinates: "Point(2.2945 48.8583)",
		City:        "Paris",
		Country:     "France",
	}, rows[0])
}

func TestExtract_SkipsMissingCity(t *testing.T) {
	bindings := []sparql.Binding{
		binding("Eiffel Tower", "Point(2.2945 48.8583)", "Paris", "France"),
		binding("Big Ben", "Point(-0.1246 51.5007)", "", "United Kingdom"),
		binding("Colosseum", "Point(12.4922 41.8902)", "Rome", "Italy"),
	}

	rows, skipped := Extract(bindings, nil)
	require.Len(t, rows, 2)
	assert.Equal(t, "Colosseum", rows[1].Name)

	require.Len(t, skipped, 1)
	assert.Equal(t, 2, skipped[0].Position)
	assert.Equal(t, VarCity, skipped[0].Field)
	assert.Equal(t, `item 2: missing field "cityLabel"`, skipped[0].Error())
}

func TestExtract_ReportsFirstMissingField(t *testing.T) {
	rows, skipped := Extract([]sparql.Binding{binding("", "", "", "Spain")}, nil)
	assert.Empty(t, rows)
	require.Len(t, skipped, 1)
	assert.Equal(t, VarLandmark, skipped[0].Field)
}

func TestExtract_Progress(t *testing.T) {
	bindings := make([]sparql.Binding, 0, 250)
	for i := 0; i < 250; i++ {
		bindings = append(bindings, binding(fmt.Sprintf("Landmark %d", i), "Point(0 0)", "City", "Country"))
	}

	var calls [][2]int
	rows, skipped := Extract(bindings, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})

	assert.Len(t, rows, 250)
	assert.Empty(t, skipped)
	assert.Equal(t, [][2]int{{100, 250}, {200, 250}, {250, 250}}, calls)
}

func TestExtract_ProgressSkipsDroppedRows(t *testing.T) {
	bindings := make([]sparql.Binding, 0, 250)
	for i := 0; i < 250; i++ {
		name := fmt.Sprintf("Landmark %d", i)
		if i == 99 || i == 249 {
			name = ""
		}
		bindings = append(bindings, binding(name, "Point(0 0)", "City", "Country"))
	}

	var calls [][2]int
	rows, skipped := Extract(bindings, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})

	assert.Len(t, rows, 248)
	assert.Len(t, skipped, 2)
	assert.Equal(t, [][2]int{{200, 250}}, calls)
}

func TestExtract_ProgressExactHundred(t *testing.T) {
	bindings := make([]sparql.Binding, 100)
	for i := range bindings {
		bindings[i] = binding("L", "Point(0 0)", "C", "K")
	}

	var calls int
	Extract(bindings, func(done, total int) { calls++ })
	assert.Equal(t, 1, calls)
}

func TestExtract_Empty(t *testing.T) {
	var calls int
	rows, skipped := Extract(nil, func(int, int) { calls++ })
	assert.Empty(t, rows)
	assert.Empty(t, skipped)
	assert.Zero(t, calls)
}
