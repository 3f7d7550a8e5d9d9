package enum

import (
	types "lostfound/internal/common/type"
	"path/filepath"
	"strings"
)

type FileTypeEnum string

const (
	IMAGE FileTypeEnum = "image"
	FILE  FileTypeEnum = "file"
)

// PhotoField is the multipart field carrying report photos.
const PhotoField = "photos"

var reportPhotoExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

func (e FileTypeEnum) ToString() string {
	switch e {
	case IMAGE:
		return "image"
	case FILE:
		return "file"
	default:
		return ""
	}
}

func (e FileTypeEnum) IsValid() bool {
	switch e {
	case IMAGE, FILE:
		return true
	}

	return false
}

// IsValidImage reports whether the file declares image content. Only these
// files get a preview.
func (e FileTypeEnum) IsValidImage(file *types.BufferedFile) bool {
	if e != IMAGE {
		return false
	}
	mimeType := strings.ToLower(strings.TrimSpace(file.MimeType))
	return strings.HasPrefix(mimeType, "image/") && len(mimeType) > len("image/")
}

// IsReportPhoto is the stricter check applied before a photo is stored
// with a report: png, jpg, jpeg or gif by extension and image MIME type.
func (e FileTypeEnum) IsReportPhoto(file *types.BufferedFile) bool {
	if !e.IsValidImage(file) {
		return false
	}
	return reportPhotoExtensions[strings.ToLower(filepath.Ext(file.OriginalName))]
}
