package ephemeris

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/natal-chart/internal/domain/chart"
)

// ElementsFileName is looked up when the data path points at a directory.
const ElementsFileName = "elements.yaml"

type elementsFile struct {
	Bodies map[string]Elements `yaml:"bodies"`
}

// LoadElements reads orbital element overrides from a YAML data file.
func LoadElements(path string) (map[chart.Body]Elements, string, error) {
	path = strings.TrimSpace(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat ephemeris data: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, ElementsFileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read ephemeris data: %w", err)
	}
	var file elementsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, "", fmt.Errorf("parse ephemeris data: %w", err)
	}
	if len(file.Bodies) == 0 {
		return nil, "", fmt.Errorf("ephemeris data %s defines no bodies", path)
	}
	out := make(map[chart.Body]Elements, len(file.Bodies))
	for name, el := range file.Bodies {
		body := chart.Body(strings.ToLower(strings.TrimSpace(name)))
		if body == chart.Rahu || !slices.Contains(chart.Bodies, body) {
			return nil, "", fmt.Errorf("ephemeris data: unsupported body %q", name)
		}
		if err := el.validate(); err != nil {
			return nil, "", fmt.Errorf("ephemeris data: %s: %w", body, err)
		}
		out[body] = el
	}
	return out, path, nil
}

// NewBuiltinFromPath builds the analytic provider, applying the data file at path when it
// is usable. A missing or invalid file leaves the built-in elements in place.
func NewBuiltinFromPath(path string, logger *slog.Logger) *Builtin {
	log := logger.With("component", "ephemeris.builtin")
	if strings.TrimSpace(path) == "" {
		log.Info("no ephemeris data path configured, using built-in elements")
		return NewBuiltin(nil, "")
	}
	elements, source, err := LoadElements(path)
	if err != nil {
		log.Warn("ephemeris data unusable, using built-in elements", "path", path, "error", err)
		return NewBuiltin(nil, "")
	}
	log.Info("ephemeris data loaded", "path", source, "bodies", len(elements))
	return NewBuiltin(elements, filepath.Base(source))
}
