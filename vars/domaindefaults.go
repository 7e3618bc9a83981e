package vars

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDomainDefaults walks dir for *.yaml/*.yml files, parses each as a
// top-level string-keyed map, and deep-merges them all into
// LayerDomainDefaults. Files are visited in the same lexical walk order
// filepath.WalkDir always produces, so when two files define the same key
// the one later in that order wins — callers relying on a specific
// override should split defaults across directories rather than files in
// the same one. A missing dir is not an error: domain defaults are
// optional (spec §4.2).
func (s *Store) LoadDomainDefaults(dir string) error {
	merged := make(map[string]Value)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDomainDefaultsLoad, path, err)
		}

		var doc map[string]Value
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDomainDefaultsLoad, path, err)
		}

		deepMerge(merged, doc)
		return nil
	})
	if err != nil {
		return err
	}

	s.SetLayer(LayerDomainDefaults, merged)
	return nil
}
