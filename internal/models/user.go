package models

import "time"

type User struct {
	BaseModel
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `gorm:"not null" json:"-"`
	AvatarURL    *string `json:"avatar_url"`
	About        *string `json:"about"`
	IsOnline     bool    `gorm:"default:false" json:"is_online"`
	LastSeen     time.Time `json:"last_seen"`
}
