package types

import (
	"path/filepath"
	"strings"
)

// BufferedFile is an uploaded file held in memory.
type BufferedFile struct {
	MediaType    string `json:"mediaType"`
	OriginalName string `json:"originalName" validate:"required"`
	MimeType     string `json:"mimetype" validate:"required"`
	Size         int    `json:"size" validate:"required"`
	Buffer       []byte `json:"-"`
}

// Ext is the lower-cased extension including the dot.
func (f *BufferedFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.OriginalName))
}

type BufferedFiles map[string][]BufferedFile
