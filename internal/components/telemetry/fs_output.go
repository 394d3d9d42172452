package telemetry

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FilesystemOutput is a MessageOutput that writes each dumped request and
// response pair to `<directory>/<id>.http`.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput creates a new run directory under `dir`, nothing that
// already exists in `dir` is touched.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	runDir, err := os.MkdirTemp(dir, time.Now().Format("20060102-150405")+"-")
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: runDir}, nil
}

// Directory is where the dumps of this run are written.
func (o FilesystemOutput) Directory() string {
	return o.directory
}

func (o FilesystemOutput) path(id string) string {
	return filepath.Join(o.directory, filepath.Base(id)+".http")
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(o.path(id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write http dump", "id", id, "path", o.path(id), "err", err)
	}
}
