package model

import "time"

// DefaultAvatar is the avatar every profile starts with, as a data URI
const DefaultAvatar = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCAzMiAzMiI+PGNpcmNsZSBjeD0iMTYiIGN5PSIxNiIgcj0iMTYiIGZpbGw9IiM0RUNEQzQiLz48L3N2Zz4="

// Profile is the single per-identity account document
type Profile struct {
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Theme     bool      `json:"theme"` // true = dark
	CreatedAt time.Time `json:"created_at"`
}

// NewProfile creates a fresh profile for a first login: default avatar,
// dark theme, current timestamp.
func NewProfile(name string) Profile {
	return Profile{
		Name:      name,
		AvatarURL: DefaultAvatar,
		Theme:     true,
		CreatedAt: time.Now(),
	}
}
