package request

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
)

// FileUpload represents an uploaded file with its metadata and content.
type FileUpload struct {
	// Filename is the original filename provided by the client
	Filename string

	// Size is the size of the file in bytes
	Size int64

	// Header contains the MIME header fields for this file part
	Header textproto.MIMEHeader

	// Content holds the file data in memory
	Content []byte
}

// ContentType returns the MIME type of the upload, taken from the part's
// Content-Type header or, failing that, from the file extension.
func (f *FileUpload) ContentType() string {
	if ct := f.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ := mime.ParseMediaType(ct)
		return mediaType
	}
	return mime.TypeByExtension(filepath.Ext(f.Filename))
}

// Ext returns the lower-cased file extension without the dot.
func (f *FileUpload) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Filename)), ".")
}

// readFileHeader reads a multipart file part into memory.
func readFileHeader(header *multipart.FileHeader) (*FileUpload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", header.Filename, err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", header.Filename, err)
	}

	return &FileUpload{
		Filename: header.Filename,
		Size:     int64(len(content)),
		Header:   header.Header,
		Content:  content,
	}, nil
}

// readFiles converts every file part of a multipart form. A field with one
// file maps to *FileUpload, a field with several to []*FileUpload.
func readFiles(form *multipart.Form) (map[string]any, error) {
	out := make(map[string]any)
	if form == nil {
		return out, nil
	}

	for field, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		uploads := make([]*FileUpload, 0, len(headers))
		for _, h := range headers {
			upload, err := readFileHeader(h)
			if err != nil {
				return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidForm, field, err)
			}
			uploads = append(uploads, upload)
		}
		if len(uploads) == 1 {
			out[field] = uploads[0]
		} else {
			out[field] = uploads
		}
	}
	return out, nil
}
