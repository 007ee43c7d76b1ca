package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"feedinneed_backend/internal/imageprocessor"
	"feedinneed_backend/internal/storage"
	"feedinneed_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type UploadService interface {
	// UploadDonationPhoto validates, downsizes and stores one photo,
	// returning its public URL for inclusion in a donation's photo list.
	UploadDonationPhoto(ctx context.Context, userID string, file *multipart.FileHeader) (string, error)
}

type uploadService struct {
	store        storage.Storage
	processor    *imageprocessor.Processor
	maxSize      int64
	allowedTypes []string
}

func NewUploadService(store storage.Storage, processor *imageprocessor.Processor, maxSize int64, allowedTypes []string) UploadService {
	return &uploadService{
		store:        store,
		processor:    processor,
		maxSize:      maxSize,
		allowedTypes: allowedTypes,
	}
}

func (s *uploadService) UploadDonationPhoto(ctx context.Context, userID string, file *multipart.FileHeader) (string, error) {
	if file.Size > s.maxSize {
		return "", apperrors.NewBadRequestError(
			fmt.Sprintf("Photo exceeds the %d MB limit", s.maxSize/(1024*1024)))
	}

	contentType := file.Header.Get("Content-Type")
	if !s.typeAllowed(contentType) {
		return "", apperrors.NewBadRequestError("Unsupported photo type: " + contentType)
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer src.Close()

	// Decode twice: once for validation, once for resizing. The reader is
	// consumed by the first decode.
	raw, err := io.ReadAll(src)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	if !imageprocessor.IsValidImage(bytes.NewReader(raw)) {
		return "", apperrors.NewBadRequestError("File is not a valid image")
	}

	processed, processedType, err := s.processor.ProcessImage(bytes.NewReader(raw), imageprocessor.SizeFull)
	if err != nil {
		return "", apperrors.NewBadRequestError("Could not process image: " + err.Error())
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	path := fmt.Sprintf("donations/%s/%d_%s%s", userID, time.Now().Unix(), uuid.NewString()[:8], ext)

	if err := s.store.Save(ctx, path, processed, processedType); err != nil {
		return "", apperrors.InternalError(err)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return url, nil
}

func (s *uploadService) typeAllowed(contentType string) bool {
	for _, allowed := range s.allowedTypes {
		if strings.EqualFold(allowed, contentType) {
			return true
		}
	}
	return false
}
