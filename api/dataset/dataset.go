// Package dataset provides raw record strings from bundled or local files.
package dataset

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ka2n/recview/api/record"
	"github.com/ka2n/recview/log"
	"github.com/morikuni/failure/v2"
	"gopkg.in/yaml.v3"
)

//go:embed data.json
var bundled []byte

// Provider supplies raw record strings.
type Provider interface {
	Load() ([]string, error)
}

// FileProvider reads a JSON array or YAML sequence of strings from disk.
type FileProvider struct {
	Path string
}

// File returns a provider for path. Files ending in .yaml or .yml are read as
// YAML, anything else as JSON.
func File(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) Load() ([]string, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, failure.Translate(err, ErrLoad,
			failure.Message("Failed to read records"),
			failure.Context{"path": p.Path},
		)
	}

	switch strings.ToLower(filepath.Ext(p.Path)) {
	case ".yaml", ".yml":
		return decodeYAML(data, p.Path)
	default:
		return decodeJSON(data, p.Path)
	}
}

type embeddedProvider struct{}

// Embedded returns the provider for the dataset compiled into the binary.
func Embedded() Provider {
	return embeddedProvider{}
}

func (embeddedProvider) Load() ([]string, error) {
	return decodeJSON(bundled, "embedded:data.json")
}

func decodeJSON(data []byte, name string) ([]string, error) {
	var raws []string
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, failure.Translate(err, ErrFormat,
			failure.Message("Records must be a JSON array of strings"),
			failure.Context{"source": name},
		)
	}
	return raws, nil
}

func decodeYAML(data []byte, name string) ([]string, error) {
	var raws []string
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, failure.Translate(err, ErrFormat,
			failure.Message("Records must be a YAML list of strings"),
			failure.Context{"source": name},
		)
	}
	return raws, nil
}

// LoadRecords loads and decodes every raw record from p. A provider error is
// logged and yields zero records.
func LoadRecords(p Provider) []record.Record {
	raws, err := p.Load()
	if err != nil {
		log.Warn("Failed to load records", "error", err)
		return []record.Record{}
	}
	return record.Decode(raws)
}
