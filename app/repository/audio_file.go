package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vocali/vocali-backend/app/entity"
)

type AudioFileStore interface {
	Create(ctx context.Context, file *entity.AudioFile) error
	ListByUserID(ctx context.Context, userID uint64) ([]entity.AudioFile, error)
}

type audioFileRepository struct {
	db *gorm.DB
}

func NewAudioFileRepository(db *gorm.DB) AudioFileStore {
	return &audioFileRepository{db: db}
}

func (r *audioFileRepository) Create(ctx context.Context, file *entity.AudioFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *audioFileRepository) ListByUserID(ctx context.Context, userID uint64) ([]entity.AudioFile, error) {
	var files []entity.AudioFile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}
