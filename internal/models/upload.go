package models

import "gorm.io/datatypes"

type Upload struct {
	BaseModel
	UserID          string `gorm:"not null;index"`
	Path            string `gorm:"not null"`
	URL             string
	OriginalName    string
	MimeType        string
	Size            int64
	FileType        string         // image, video, audio, document
	Metadata        datatypes.JSON `gorm:"type:jsonb"`
	StorageProvider string         `gorm:"default:'local'"` // local, s3, cloudflare_r2
}
