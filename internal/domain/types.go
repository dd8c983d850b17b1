package domain

import (
	"strings"
	"time"
)

// Visibility is the access level a photo is published under.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityRegister Visibility = "register"
	VisibilityManager  Visibility = "manager"
)

// Website holds the per-site photo album switches.
type Website struct {
	ID                   int64
	Name                 string
	PhotoalbumNew        bool
	PhotoalbumNewAnon    bool
	PhotoalbumComment    bool
	PhotoalbumAnonymous  bool
	PhotoalbumAnonUserID *int64
}

type User struct {
	ID          int64
	DisplayName string
	Email       string
	CreatedAt   time.Time
}

// RecName is the name shown for the user in breadcrumbs and listings.
func (u *User) RecName() string {
	if u == nil {
		return ""
	}
	return u.DisplayName
}

type Photo struct {
	ID           int64
	UserID       int64
	User         *User
	FileName     string
	StorageKey   string
	MimeType     string
	Description  string
	MetaKeywords string
	Visibility   Visibility
	Active       bool
	CreatedAt    time.Time
}

// Keywords splits MetaKeywords on commas and drops empty entries.
func (p *Photo) Keywords() []string {
	var out []string
	for _, k := range strings.Split(p.MetaKeywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

type Comment struct {
	ID          int64
	PhotoID     int64
	UserID      int64
	User        *User
	Description string
	Active      bool
	CreatedAt   time.Time
}

// AlbumConfig is the singleton photo album configuration record.
type AlbumConfig struct {
	MaxSize int64
}

// DefaultMaxSize applies when the configuration leaves max_size unset.
const DefaultMaxSize int64 = 1000000

// EffectiveMaxSize returns MaxSize, or DefaultMaxSize when it is not set.
func (c *AlbumConfig) EffectiveMaxSize() int64 {
	if c == nil || c.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return c.MaxSize
}
