// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"unicode/utf8"

	_ "golang.org/x/image/webp" // register WebP decoder

	"techblog/internal/blog"
)

// maxImageSize is the maximum allowed featured image size (10 MB).
const maxImageSize = 10 << 20

// maxImageDimension caps either side of a featured image in pixels.
const maxImageDimension = 8000

// maxNameLen caps the display name chosen at sign-up.
const maxNameLen = 100

// allowedImageTypes lists MIME types accepted as featured images,
// detected by sniffing the upload rather than trusting the client.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// readImageUpload parses the "file" part of a multipart request and
// checks its size and sniffed content type. The returned close function
// releases the part.
func readImageUpload(w http.ResponseWriter, r *http.Request) (blog.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1024)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return blog.Upload{}, nil, fmt.Errorf("%w: image must be a multipart upload of at most 10 MB", blog.ErrInvalidInput)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return blog.Upload{}, nil, fmt.Errorf("%w: no file provided", blog.ErrInvalidInput)
	}

	contentType, err := validateImage(file, header)
	if err != nil {
		file.Close()
		return blog.Upload{}, nil, err
	}

	upload := blog.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
		Size:        header.Size,
	}
	return upload, func() { file.Close() }, nil
}

// validateImage sniffs the first 512 bytes of file and decodes the image
// header to check its dimensions, then rewinds it.
func validateImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxImageSize {
		return "", fmt.Errorf("%w: image is too large (max 10 MB)", blog.ErrInvalidInput)
	}

	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(sniff[:n])
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: file type %q is not allowed", blog.ErrInvalidInput, contentType)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return "", fmt.Errorf("%w: image could not be decoded", blog.ErrInvalidInput)
	}
	if cfg.Width < 1 || cfg.Height < 1 || cfg.Width > maxImageDimension || cfg.Height > maxImageDimension {
		return "", fmt.Errorf("%w: image must be between 1 and %d pixels per side", blog.ErrInvalidInput, maxImageDimension)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return contentType, nil
}

// validateSignUp checks request-level limits the identity layer does not.
func validateSignUp(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) > maxNameLen {
		return fmt.Errorf("%w: name is too long (max 100 characters)", blog.ErrInvalidInput)
	}
	return nil
}
