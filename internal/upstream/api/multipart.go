package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// FileUpload is one file part of a multipart request.
type FileUpload struct {
	// Field is the form field name, e.g. "imageFile".
	Field string
	// Name is the original filename.
	Name string
	// Content is the raw file bytes.
	Content []byte
}

// encodeMultipart builds a multipart/form-data payload from ordered fields
// and optional file parts. Returned content type carries the boundary and
// must travel with the body.
func encodeMultipart(fields [][2]string, files ...FileUpload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write form field %q: %w", f[0], err)
		}
	}
	for _, f := range files {
		if len(f.Content) == 0 {
			continue
		}
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %q: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write file part %q: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart payload: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
