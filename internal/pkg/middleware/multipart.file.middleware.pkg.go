package middleware

import (
	"errors"
	"fmt"
	"io"
	"lostfound/internal/common/enum"
	_type "lostfound/internal/common/type"
	"lostfound/internal/pkg/helper"
	"net/http"

	"github.com/gin-gonic/gin"
)

const BufferedFilesKey = "bufferedFiles"

type FieldOpts struct {
	Name    string
	Max     int
	Min     int
	MaxSize int64
	// Accept, when set, rejects the whole request on the first file it
	// returns false for.
	Accept  func(file *_type.BufferedFile) bool
	Invalid string
}

// PhotoFieldOpts is the report photo rule: png/jpg/jpeg/gif, 5MB each, up
// to five files.
func PhotoFieldOpts(min int) FieldOpts {
	return FieldOpts{
		Name:    enum.PhotoField,
		Min:     min,
		Max:     5,
		MaxSize: 5 << 20,
		Accept:  enum.IMAGE.IsReportPhoto,
		Invalid: "Invalid file type. Please upload PNG, JPG, JPEG, or GIF files only.",
	}
}

func MultipartFormMiddleware(fields []FieldOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(func(r *_type.Response))

		files, failure := ReadMultipartFiles(c, fields)
		if failure != nil {
			send(helper.ParseResponse(failure))
			return
		}

		c.Set(BufferedFilesKey, files)
		c.Next()
	}
}

// ReadMultipartFiles buffers the listed file fields and enforces their
// limits. A request that is not multipart counts as having no files.
func ReadMultipartFiles(c *gin.Context, fields []FieldOpts) (_type.BufferedFiles, *_type.Response) {
	bufferedFiles := make(_type.BufferedFiles)

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, &_type.Response{Code: http.StatusBadRequest, Message: "Failed retrieving files", Error: err}
	}

	for _, field := range fields {
		if form == nil {
			break
		}
		for _, fileHeader := range form.File[field.Name] {
			if fileHeader.Filename == "" {
				continue
			}
			if field.MaxSize > 0 && fileHeader.Size > field.MaxSize {
				return nil, &_type.Response{
					Code:    http.StatusRequestEntityTooLarge,
					Message: fmt.Sprintf("%s exceeds the %d MB limit", fileHeader.Filename, field.MaxSize>>20),
				}
			}

			file, err := fileHeader.Open()
			if err != nil {
				return nil, &_type.Response{Code: http.StatusInternalServerError, Message: "Failed reading file", Error: err}
			}
			fileBuffer, err := io.ReadAll(file)
			closeErr := file.Close()
			if err != nil {
				return nil, &_type.Response{Code: http.StatusInternalServerError, Message: "Failed reading file content", Error: err}
			}
			if closeErr != nil {
				return nil, &_type.Response{Code: http.StatusInternalServerError, Message: "Failed close file", Error: closeErr}
			}

			mimeType := fileHeader.Header.Get("Content-Type")
			if mimeType == "" || mimeType == "application/octet-stream" {
				mimeType = http.DetectContentType(fileBuffer)
			}

			bufferedFile := _type.BufferedFile{
				MediaType:    field.Name,
				OriginalName: fileHeader.Filename,
				MimeType:     mimeType,
				Size:         len(fileBuffer),
				Buffer:       fileBuffer,
			}

			if field.Accept != nil && !field.Accept(&bufferedFile) {
				msg := field.Invalid
				if msg == "" {
					msg = "Please upload a valid " + field.Name + " file"
				}
				return nil, &_type.Response{Code: http.StatusBadRequest, Message: msg}
			}

			bufferedFiles[field.Name] = append(bufferedFiles[field.Name], bufferedFile)
		}
	}

	for _, field := range fields {
		count := len(bufferedFiles[field.Name])
		if count < field.Min {
			return nil, &_type.Response{Code: http.StatusBadRequest, Message: fmt.Sprintf("Minimum %s is %d", field.Name, field.Min)}
		}
		if field.Max > 0 && count > field.Max {
			return nil, &_type.Response{Code: http.StatusBadRequest, Message: fmt.Sprintf("Maximum %s is %d", field.Name, field.Max)}
		}
	}

	return bufferedFiles, nil
}

// GetBufferedFiles returns what MultipartFormMiddleware stored.
func GetBufferedFiles(c *gin.Context, field string) []_type.BufferedFile {
	value, ok := c.Get(BufferedFilesKey)
	if !ok {
		return nil
	}
	return value.(_type.BufferedFiles)[field]
}
