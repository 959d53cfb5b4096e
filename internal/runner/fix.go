package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"promptarena/internal/catalog"
	"promptarena/internal/extract"
)

// FixArtifacts re-runs the extractor over existing coding artifacts that
// still carry markdown wrapping from an earlier run. Files that already
// read as documents are left alone. Returns the names of fixed files.
func FixArtifacts(dir string, prompts []catalog.Prompt, providerKeys []string) ([]string, error) {
	var fixed []string
	for _, prompt := range prompts {
		if prompt.Kind != catalog.KindCoding {
			continue
		}
		for _, key := range providerKeys {
			name := prompt.ArtifactName(key)
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return fixed, fmt.Errorf("reading artifact %s: %w", path, err)
			}
			content := string(data)
			if extract.IsDocument(content) {
				continue
			}
			repaired := extract.Payload(content)
			if repaired == content {
				continue
			}
			if err := os.WriteFile(path, []byte(repaired), 0o644); err != nil {
				return fixed, fmt.Errorf("rewriting artifact %s: %w", path, err)
			}
			fixed = append(fixed, name)
		}
	}
	return fixed, nil
}
