package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one scene in the output manifest.
type ManifestEntry struct {
	Name    string   `json:"name"`
	Scene   string   `json:"scene"`
	Images  []string `json:"images,omitempty"`
	Faces   int      `json:"faces"`
	Seconds float64  `json:"seconds"`
	Error   string   `json:"error,omitempty"`
}

// WriteManifest writes the results as JSON. Image paths are stored relative
// to the manifest's directory when possible.
func WriteManifest(path string, results []Result) error {
	dir := filepath.Dir(path)
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		images := make([]string, len(r.Outputs))
		for j, o := range r.Outputs {
			if rel, err := filepath.Rel(dir, o); err == nil {
				o = filepath.ToSlash(rel)
			}
			images[j] = o
		}
		entries[i] = ManifestEntry{
			Name:    r.Name,
			Scene:   r.Scene,
			Images:  images,
			Faces:   r.Faces,
			Seconds: r.Elapsed.Seconds(),
			Error:   r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
