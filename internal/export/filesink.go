package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileRef describes a file written by a FileSink
type FileRef struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
}

// FileSink persists export documents and downloaded attachments. The
// pipeline itself only hands over bytes; where they land is the sink's
// concern.
type FileSink interface {
	WriteJSON(name string, data any) (FileRef, error)
	WriteFile(name string, data []byte) (FileRef, error)
	Dir() string
}

// DirSink writes files into a single directory on disk
type DirSink struct {
	dir string
}

// NewDirSink creates the directory if needed and returns a sink over it
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sink directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// Dir returns the directory where files are written
func (s *DirSink) Dir() string {
	return s.dir
}

// WriteJSON marshals data to JSON and writes it to a timestamped file
func (s *DirSink) WriteJSON(name string, data any) (FileRef, error) {
	filename := fmt.Sprintf("%s-%d.json", name, time.Now().UnixNano())
	filePath := filepath.Join(s.dir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return FileRef{}, fmt.Errorf("failed to write data: %w", err)
	}

	fi, err := file.Stat()
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to stat file: %w", err)
	}

	return FileRef{
		Path:  filePath,
		Name:  filename,
		Bytes: fi.Size(),
	}, nil
}

// WriteFile writes raw bytes under the given name, overwriting any
// previous file with that name.
func (s *DirSink) WriteFile(name string, data []byte) (FileRef, error) {
	filePath := filepath.Join(s.dir, name)

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return FileRef{}, fmt.Errorf("failed to write file: %w", err)
	}

	return FileRef{
		Path:  filePath,
		Name:  name,
		Bytes: int64(len(data)),
	}, nil
}
