package controller

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	httpdto "github.com/vocali/vocali-backend/app/dto/http"
	"github.com/vocali/vocali-backend/app/entity"
)

type audioService interface {
	Upload(ctx context.Context, user *entity.User, fileName string, r io.Reader, size int64, contentType string) (*entity.AudioFile, error)
	List(ctx context.Context, userID uint64) ([]entity.AudioFile, error)
	DownloadURL(file *entity.AudioFile) string
}

type AudioController struct {
	audioService audioService
}

func NewAudioController(audioService audioService) *AudioController {
	return &AudioController{audioService: audioService}
}

func (c *AudioController) Upload(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		logrus.Warn("Upload failed: missing user in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "invalid token"})
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		logrus.WithError(err).Debug("Upload failed: missing file")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "file is required"})
	}

	src, err := header.Open()
	if err != nil {
		logrus.WithError(err).Error("Upload failed: cannot open file")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}
	defer src.Close()

	file, err := c.audioService.Upload(
		ctx.Request().Context(),
		user,
		header.Filename,
		src,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":   user.ID,
			"file_name": header.Filename,
		}).Error("Upload failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"file_key":  file.FileKey,
		"file_size": file.FileSize,
	}).Info("File uploaded")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "File uploaded"})
}

func (c *AudioController) Files(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		logrus.Warn("Files failed: missing user in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "invalid token"})
	}

	files, err := c.audioService.List(ctx.Request().Context(), user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Listing files failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	out := make([]httpdto.AudioFileResponse, 0, len(files))
	for i := range files {
		f := &files[i]
		out = append(out, httpdto.AudioFileResponse{
			UserID:       user.ID,
			FileKey:      f.FileKey,
			FileName:     f.FileName,
			FileSize:     f.FileSize,
			Duration:     f.Duration,
			Format:       f.Format,
			UploadedAt:   f.UploadedAt,
			LastModified: f.UploadedAt,
			Status:       "ready",
			Metadata: httpdto.AudioMetadata{
				OriginalName: f.FileName,
				Duration:     f.Duration,
				Extension:    f.Format,
				Transcription: httpdto.Transcription{
					Language: "en",
					Text:     "",
					Status:   "pending",
				},
				FileSize:   f.FileSize,
				Format:     f.Format,
				UploadedAt: f.UploadedAt,
				MimeType:   "audio/mpeg",
			},
			DownloadURL: c.audioService.DownloadURL(f),
		})
	}

	return ctx.JSON(http.StatusOK, out)
}
