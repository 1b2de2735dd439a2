package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FilesystemOutput dumps HTTP exchanges into a directory, one file per
// exchange. Files from a single process share a timestamp prefix so
// repeated runs against the same directory don't overwrite each other.
type FilesystemOutput struct {
	directory string
	prefix    string
}

func NewFilesystemOutput(dir string) FilesystemOutput {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		panic(err)
	}
	return FilesystemOutput{
		directory: dir,
		prefix:    time.Now().Format("20060102-150405"),
	}
}

func (o FilesystemOutput) Write(id string, contents string) {
	name := fmt.Sprintf("%s_%s.txt", o.prefix, id)
	err := os.WriteFile(filepath.Join(o.directory, name), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write http dump file", "id", id, "err", err)
	}
}
