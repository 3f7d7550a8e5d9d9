package storage

import (
	"context"
	"errors"
	types "lostfound/internal/common/type"
	"strings"

	"github.com/google/uuid"
)

var ErrEmptyFile = errors.New("file is empty")

// StoredFile describes a saved photo.
type StoredFile struct {
	FileName     string `json:"file_name"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int    `json:"size"`
	URL          string `json:"url"`
}

type IService interface {
	Save(ctx context.Context, file *types.BufferedFile) (*StoredFile, error)
	Delete(ctx context.Context, fileName string) error
}

// objectName is a random name keeping the upload's extension, so user file
// names never reach the storage path.
func objectName(file *types.BufferedFile) string {
	return strings.ReplaceAll(uuid.New().String(), "-", "") + file.Ext()
}

func stored(file *types.BufferedFile, name, url string) *StoredFile {
	return &StoredFile{
		FileName:     name,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		Size:         len(file.Buffer),
		URL:          url,
	}
}
