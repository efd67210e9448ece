// Package vars loads a bulk variables file for a Variable segment's
// source= bulk-load mode, picking a format driver by file extension.
package vars

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Load reads path and returns a flat name/value map. The original engine
// only ever understood key=value properties files; YAML and JSON are a
// supplemental convenience for structured variable sets.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(data)
	case ".json":
		return loadJSON(data)
	default:
		return loadProperties(data)
	}
}

// loadProperties parses "key=value" lines, skipping blanks and lines whose
// first non-space character is '#', mirroring the original engine's ad hoc
// properties reader.
func loadProperties(data []byte) (map[string]string, error) {
	out := map[string]string{}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		out[key] = val
	}
	return out, scanner.Err()
}

func loadYAML(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("vars: parsing yaml: %w", err)
	}
	return flatten(raw), nil
}

func loadJSON(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("vars: parsing json: %w", err)
	}
	return flatten(raw), nil
}

func flatten(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
