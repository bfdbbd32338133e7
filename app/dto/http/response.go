package http

import "time"

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserProfile mirrors the identity payload returned by GET /auth/me.
type UserProfile struct {
	Sub           uint64 `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	EmailVerified bool   `json:"emailVerified"`
	UserStatus    string `json:"userStatus"`
	Enabled       bool   `json:"enabled"`
	TokenUse      string `json:"tokenUse"`
	Scope         string `json:"scope"`
	AuthTime      int64  `json:"authTime"`
	IssuedAt      int64  `json:"issuedAt"`
	ExpiresAt     int64  `json:"expiresAt"`
}

type MeResponse struct {
	User UserProfile `json:"user"`
}

type Transcription struct {
	Language string `json:"language"`
	Text     string `json:"text"`
	Status   string `json:"status"`
}

type AudioMetadata struct {
	OriginalName  string        `json:"originalName"`
	Duration      float64       `json:"duration"`
	Extension     string        `json:"extension"`
	Transcription Transcription `json:"transcription"`
	FileSize      int64         `json:"fileSize"`
	Format        string        `json:"format"`
	UploadedAt    time.Time     `json:"uploadedAt"`
	MimeType      string        `json:"mimeType"`
}

type AudioFileResponse struct {
	UserID       uint64        `json:"userId"`
	FileKey      string        `json:"fileKey"`
	FileName     string        `json:"fileName"`
	FileSize     int64         `json:"fileSize"`
	Duration     float64       `json:"duration"`
	Format       string        `json:"format"`
	UploadedAt   time.Time     `json:"uploadedAt"`
	LastModified time.Time     `json:"lastModified"`
	Status       string        `json:"status"`
	Metadata     AudioMetadata `json:"metadata"`
	DownloadURL  string        `json:"downloadUrl"`
}
