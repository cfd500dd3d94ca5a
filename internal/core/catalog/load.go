package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only catalog document version we read
const SchemaVersion = 1

// Source labels reported through Info
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePG       = "pg"
	SourceSQLite   = "sqlite"
)

//go:embed catalog.yaml
var embedded []byte

// Embedded returns the demo catalog compiled into the binary
func Embedded() (*Catalog, error) {
	return Parse(embedded, SourceEmbedded)
}

// LoadFile reads a catalog document from disk
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(b, SourceFile+":"+path)
}

// Parse decodes a yaml catalog document; JSON documents parse too since yaml is a superset
func Parse(b []byte, source string) (*Catalog, error) {
	var s Snapshot
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", source, err)
	}
	if s.Version != SchemaVersion {
		return nil, fmt.Errorf("catalog: unsupported version %d (want %d)", s.Version, SchemaVersion)
	}
	return New(s, source)
}

// Marshal renders a snapshot back to yaml, used by the CLI export
func Marshal(s Snapshot) ([]byte, error) {
	if s.Version == 0 {
		s.Version = SchemaVersion
	}
	return yaml.Marshal(s)
}

// Snapshot rebuilds the raw snapshot from an indexed catalog
func (c *Catalog) Snapshot() Snapshot {
	s := Snapshot{
		Version: c.info.Version,
		Meta:    c.info.Meta,
		Waters:  c.Waters(),
		Species: c.Species(),
		Surveys: c.Surveys(),
	}
	for _, sv := range c.surveys {
		s.FishRecords = append(s.FishRecords, c.records[sv.ID]...)
	}
	return s
}
