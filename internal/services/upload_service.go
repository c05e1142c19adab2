package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"chatline_backend/internal/config"
	"chatline_backend/internal/models"
	"chatline_backend/internal/repositories"
	"chatline_backend/internal/services/dto"
	"chatline_backend/internal/storage"
	"chatline_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type UploadService interface {
	// UploadFile validates, stores and records one attachment for the user.
	UploadFile(ctx context.Context, userID string, file *multipart.FileHeader) (*dto.FileUploadResponse, error)

	GetUpload(id string) (*models.Upload, error)
}

type UploadServiceImpl struct {
	Uploads repositories.UploadRepository
	Storage storage.Storage
	Config  *config.UploadConfig
}

func NewUploadService(uploads repositories.UploadRepository, store storage.Storage, cfg *config.UploadConfig) UploadService {
	return &UploadServiceImpl{Uploads: uploads, Storage: store, Config: cfg}
}

func (s *UploadServiceImpl) UploadFile(ctx context.Context, userID string, file *multipart.FileHeader) (*dto.FileUploadResponse, error) {
	if s.Config.MaxSize > 0 && file.Size > s.Config.MaxSize {
		return nil, apperrors.NewBadRequestError("file too large")
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromFilename(file.Filename)
	}
	if len(s.Config.AllowedTypes) > 0 && !containsString(s.Config.AllowedTypes, mimeType) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("file type %s is not allowed", mimeType))
	}

	ext := filepath.Ext(file.Filename)
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), randomSuffix(8), ext)
	path := filepath.Join("chat", userID, name)

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	if err := s.Storage.Save(ctx, path, src, mimeType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.Storage.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	metadata, _ := json.Marshal(map[string]string{"original_name": file.Filename})
	upload := &models.Upload{
		UserID:       userID,
		Path:         path,
		URL:          url,
		OriginalName: file.Filename,
		MimeType:     mimeType,
		Size:         file.Size,
		FileType:     fileTypeFromMIME(mimeType),
		Metadata:     datatypes.JSON(metadata),
	}
	if err := s.Uploads.Create(upload); err != nil {
		// The stored object becomes unreachable without its row.
		if delErr := s.Storage.Delete(ctx, path); delErr != nil {
			return nil, apperrors.InternalError(fmt.Errorf("record failed: %w (cleanup also failed: %v)", err, delErr))
		}
		return nil, apperrors.PersistenceError(err)
	}

	return &dto.FileUploadResponse{
		FileURL:  url,
		FileName: file.Filename,
		FileType: upload.FileType,
	}, nil
}

func (s *UploadServiceImpl) GetUpload(id string) (*models.Upload, error) {
	upload, err := s.Uploads.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return upload, nil
}

func mimeTypeFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

func fileTypeFromMIME(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	case strings.HasPrefix(mimeType, "audio/"):
		return "audio"
	case mimeType == "application/pdf":
		return "document"
	default:
		return "file"
	}
}

func randomSuffix(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)[:length]
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
