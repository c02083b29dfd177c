package pkg

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// UploadFormField is the multipart field an uploaded CSV file is expected under.
const UploadFormField = "file"

var ErrNoUpload = errors.New("no file uploaded")

// ReadUpload returns the uploaded file content of the request: either the multipart
// field UploadFormField, or the raw body for any other content type.
// The body is capped at maxBytes.
func ReadUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		content, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if len(content) == 0 {
			return nil, ErrNoUpload
		}
		return content, nil
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, _, err := r.FormFile(UploadFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrNoUpload
		}
		return nil, fmt.Errorf("form file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}

	return content, nil
}
