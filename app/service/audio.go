package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vocali/vocali-backend/app/entity"
	"github.com/vocali/vocali-backend/app/repository"
	"github.com/vocali/vocali-backend/app/storage"
)

// AudioService stores uploaded audio blobs and their metadata rows.
type AudioService struct {
	files repository.AudioFileStore
	store storage.BlobStore
}

func NewAudioService(files repository.AudioFileStore, store storage.BlobStore) *AudioService {
	return &AudioService{files: files, store: store}
}

// Upload writes the blob under a random key and records the metadata. The
// duration stays zero until a processing step fills it in.
func (s *AudioService) Upload(ctx context.Context, user *entity.User, fileName string, r io.Reader, size int64, contentType string) (*entity.AudioFile, error) {
	fileKey := uuid.New().String()
	objectKey := fileKey + "_" + fileName

	written, err := s.store.Put(ctx, objectKey, r, size, contentType)
	if err != nil {
		return nil, err
	}

	file := &entity.AudioFile{
		UserID:   user.ID,
		FileKey:  fileKey,
		FileName: fileName,
		FileSize: written,
		Format:   strings.TrimPrefix(filepath.Ext(fileName), "."),
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// List returns the user's files.
func (s *AudioService) List(ctx context.Context, userID uint64) ([]entity.AudioFile, error) {
	return s.files.ListByUserID(ctx, userID)
}

// DownloadURL is the public URL of a stored blob.
func (s *AudioService) DownloadURL(file *entity.AudioFile) string {
	return s.store.URL(file.ObjectKey())
}
