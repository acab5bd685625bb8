package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/rummage/shopkeeper/internal/models"
)

var errInvalidPhotoType = errors.New("invalid photo type")

// parseItemForm reads a multipart item submission. The photo part is
// optional.
func parseItemForm(r *http.Request) (*models.CreateItemRequest, map[string]string, error) {
	req := &models.CreateItemRequest{
		Name:  r.FormValue("name"),
		Brand: r.FormValue("brand"),
		Size:  r.FormValue("size"),
	}

	if raw := strings.TrimSpace(r.FormValue("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, map[string]string{"price": "Price must be a number"}, nil
		}
		req.Price = price
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	photo, err := readPhoto(file, header)
	if err != nil {
		if errors.Is(err, errInvalidPhotoType) {
			return nil, map[string]string{"photo": "Invalid image type. Allowed: JPEG, PNG, GIF, WebP"}, nil
		}
		return nil, nil, err
	}
	req.Photo = photo
	return req, nil, nil
}

func readPhoto(file multipart.File, header *multipart.FileHeader) (*models.PhotoData, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !isValidImageType(contentType) {
		return nil, errInvalidPhotoType
	}

	return &models.PhotoData{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}
