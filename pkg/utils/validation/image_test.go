package validation

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name    string
		file    *multipart.FileHeader
		wantErr error
	}{
		{"nil file", nil, ErrFileRequired},
		{"too large", &multipart.FileHeader{Filename: "photo.jpg", Size: MaxImageSize + 1}, ErrFileSize},
		{"wrong extension", &multipart.FileHeader{Filename: "document.pdf", Size: 1024}, ErrFileType},
		{"no extension", &multipart.FileHeader{Filename: "photo", Size: 1024}, ErrFileType},
		{"jpg ok", &multipart.FileHeader{Filename: "photo.jpg", Size: 1024}, nil},
		{"uppercase extension ok", &multipart.FileHeader{Filename: "PHOTO.JPG", Size: 1024}, nil},
		{"png ok", &multipart.FileHeader{Filename: "photo.png", Size: 1024}, nil},
		{"webp ok", &multipart.FileHeader{Filename: "photo.webp", Size: MaxImageSize}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(tt.file)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
