package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-tools/zimport/pkg/models/domain"
)

// Store writes import artifacts into a single directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. An empty dir means the working directory.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Dir returns the directory artifacts are written to.
func (s *Store) Dir() string {
	return s.dir
}

// ReportSnapshotName derives the raw report snapshot name from the PDF name.
func ReportSnapshotName(pdfName string) string {
	return strings.TrimSuffix(pdfName, ".pdf") + ".json"
}

// JournalSnapshotName derives the journal request snapshot name from the PDF name.
func JournalSnapshotName(pdfName string) string {
	return strings.TrimSuffix(pdfName, ".pdf") + "_bokio.json"
}

// SaveFile writes data under name and returns the full path.
func (s *Store) SaveFile(name string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: invalid file name %q", domain.ErrArtifactWrite, name)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrArtifactWrite, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %w", domain.ErrArtifactWrite, err)
	}
	return path, nil
}

// SaveRawJSON indents an already encoded JSON document and writes it.
func (s *Store) SaveRawJSON(name string, raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("%w: %s is not valid json: %w", domain.ErrArtifactWrite, name, err)
	}
	buf.WriteByte('\n')
	return s.SaveFile(name, buf.Bytes())
}

// SaveJSON encodes v as indented JSON and writes it.
func (s *Store) SaveJSON(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode %s: %w", domain.ErrArtifactWrite, name, err)
	}
	return s.SaveFile(name, append(data, '\n'))
}
