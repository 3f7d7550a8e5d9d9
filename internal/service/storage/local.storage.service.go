package storage

import (
	"context"
	"errors"
	"fmt"
	types "lostfound/internal/common/type"
	"os"
	"path/filepath"
	"strings"
)

// Local keeps photos in a directory served under PublicURL.
type Local struct {
	dir       string
	publicURL string
}

func NewLocal(dir, publicURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (l *Local) Save(ctx context.Context, file *types.BufferedFile) (*StoredFile, error) {
	if len(file.Buffer) == 0 {
		return nil, ErrEmptyFile
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := objectName(file)
	if err := os.WriteFile(filepath.Join(l.dir, name), file.Buffer, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	return stored(file, name, l.publicURL+"/"+name), nil
}

func (l *Local) Delete(_ context.Context, fileName string) error {
	if fileName != filepath.Base(fileName) {
		return fmt.Errorf("invalid file name %q", fileName)
	}
	err := os.Remove(filepath.Join(l.dir, fileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
