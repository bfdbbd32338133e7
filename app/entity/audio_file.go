package entity

import "time"

// AudioFile is the metadata row for an uploaded blob. The blob itself lives
// in the configured store under "<FileKey>_<FileName>".
type AudioFile struct {
	ID         uint64  `gorm:"primaryKey"`
	UserID     uint64  `gorm:"index;not null"`
	FileKey    string  `gorm:"size:36;not null"`
	FileName   string  `gorm:"size:255;not null"`
	FileSize   int64   `gorm:"not null"`
	Format     string  `gorm:"size:16"`
	Duration   float64 `gorm:"not null;default:0"`
	UploadedAt time.Time
}

// ObjectKey is the key the blob was stored under.
func (f *AudioFile) ObjectKey() string {
	return f.FileKey + "_" + f.FileName
}
