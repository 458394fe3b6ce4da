// Package catalog provides the static instrument name -> remote path /
// pip value lookup table that the rest of the pipeline is built against.
//
// The table is bundled with the library as a JSON document and loaded once
// at package init via go:embed, matching the "catalog loaded from a JSON
// document bundled with the library" contract. Regenerating the document
// from the vendor's JSONP endpoint is an external, out-of-scope tool; a
// stale embedded catalog only ever produces ErrUnknownInstrument for newly
// listed symbols, which is accepted behavior.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed data/instruments.json
var instrumentsFS embed.FS

// Descriptor is the read-only per-instrument record: remote path prefix and
// the pip value used to compute the tick/bar price divisor.
type Descriptor struct {
	Name         string
	RemotePrefix string
	PipValue     float64
}

// pointValueOverrides holds the three symbols whose point_value does not
// follow the 10/pip_value formula. Kept local to the catalog component so
// that adding a new override never requires touching the planner, URL
// builder, or decoders.
var pointValueOverrides = map[string]float64{
	"BAT/USD": 100000,
	"UNI/USD": 1000,
	"LNK/USD": 1000,
}

// PointValue returns the divisor used to convert raw integer price fields
// to decimals: 10/pip_value, unless name has a known override.
func (d Descriptor) PointValue() float64 {
	if v, ok := pointValueOverrides[d.Name]; ok {
		return v
	}
	return 10 / d.PipValue
}

type rawEntry struct {
	RemotePrefix string  `json:"remote_prefix"`
	PipValue     float64 `json:"pip_value"`
}

var (
	loadOnce sync.Once
	table    map[string]Descriptor
	loadErr  error
)

func load() {
	raw, err := instrumentsFS.ReadFile("data/instruments.json")
	if err != nil {
		loadErr = fmt.Errorf("catalog: read embedded instruments.json: %w", err)
		return
	}

	var entries map[string]rawEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		loadErr = fmt.Errorf("catalog: decode embedded instruments.json: %w", err)
		return
	}

	table = make(map[string]Descriptor, len(entries))
	for name, e := range entries {
		table[name] = Descriptor{
			Name:         name,
			RemotePrefix: e.RemotePrefix,
			PipValue:     e.PipValue,
		}
	}
}

// Lookup resolves an instrument name exactly as the caller wrote it (e.g.
// "EUR/USD") to its descriptor. The second return value is false when the
// catalog has no entry for name.
func Lookup(name string) (Descriptor, bool) {
	loadOnce.Do(load)
	if loadErr != nil {
		// A malformed embedded catalog is a build defect, not a per-call
		// error the caller can meaningfully recover from.
		panic(loadErr)
	}
	d, ok := table[name]
	return d, ok
}

// Names returns every instrument name currently in the catalog, primarily
// useful for validators and CLI help text.
func Names() []string {
	loadOnce.Do(load)
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	return names
}
