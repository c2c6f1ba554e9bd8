package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ImportResult carries the decoded file plus any non-fatal findings.
// Warnings never block an import: a stale checksum or a newer minor
// version still loads, the user just gets told.
type ImportResult struct {
	File     *File    `json:"file"`
	Warnings []string `json:"warnings,omitempty"`
}

// Decode parses and validates project file data.
func Decode(data []byte) (*ImportResult, error) {
	f := &File{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("not a project file: missing version")
	}

	res := &ImportResult{File: f}

	if majorOf(f.Version) != majorOf(FormatVersion) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("file format %s differs from supported %s; some fields may be ignored", f.Version, FormatVersion))
	}
	if !Verify(f) {
		res.Warnings = append(res.Warnings,
			"checksum mismatch: the file was modified outside the editor")
	}

	seen := make(map[string]bool, len(f.Shapes))
	for _, s := range f.Shapes {
		if s.ID == "" {
			return nil, fmt.Errorf("shape without id in project file")
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate shape id %s in project file", s.ID)
		}
		seen[s.ID] = true
	}

	// Annotations referencing shapes absent from the file are kept but
	// flagged — they render nothing until their targets reappear.
	for _, s := range f.Shapes {
		if s.Scale == nil {
			continue
		}
		if !seen[s.Scale.FirstID] || !seen[s.Scale.SecondID] {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("annotation %s references missing shapes", s.ID))
		}
	}

	return res, nil
}

// ReadFile imports a project document from disk.
func ReadFile(path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	return Decode(data)
}

func majorOf(version string) string {
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}
