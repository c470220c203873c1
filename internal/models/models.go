package models

import "time"

// Roles assigned to users.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Media file types.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// User represents an approved account
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Approved     bool      `json:"approved"`
	PushToken    *string   `json:"push_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignupRequest represents pending credentials awaiting admin decision
type SignupRequest struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Album represents a named collection of media owned by one user
type Album struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UploadDate  time.Time `json:"upload_date"`
	IsPublic    bool      `json:"is_public"`
	Password    *string   `json:"-"`
}

// HasPassword reports whether the album is password-protected.
func (a *Album) HasPassword() bool {
	return a.Password != nil && *a.Password != ""
}

// AlbumSummary is a search/listing row: album fields plus its cover media
// (lowest media id in the album) and a media count
type AlbumSummary struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UploadDate  time.Time `json:"upload_date"`
	IsPublic    bool      `json:"is_public"`
	CoverURL    *string   `json:"cover_url"`
	CoverType   *string   `json:"cover_type"`
	MediaCount  int       `json:"media_count"`
}

// MediaFile represents an uploaded image or video
type MediaFile struct {
	ID         int64     `json:"id"`
	AlbumID    int64     `json:"album_id"`
	URL        string    `json:"url"`
	StorageKey string    `json:"-"`
	Type       string    `json:"type"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notification represents a message for a user
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// Session is the authenticated identity attached to a request, loaded from
// the session store. UnlockedAlbumIDs tracks password-protected albums the
// session has already unlocked; it expires together with the identity.
type Session struct {
	ID               string  `json:"-"`
	UserID           int64   `json:"user_id"`
	Username         string  `json:"username"`
	Role             string  `json:"role"`
	UnlockedAlbumIDs []int64 `json:"unlocked_album_ids,omitempty"`
}

// IsAdmin reports whether the session belongs to an admin.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// HasUnlocked reports whether this session has unlocked the given album.
func (s *Session) HasUnlocked(albumID int64) bool {
	for _, id := range s.UnlockedAlbumIDs {
		if id == albumID {
			return true
		}
	}
	return false
}

// Unlock records a successful album unlock in the session.
func (s *Session) Unlock(albumID int64) {
	if s.HasUnlocked(albumID) {
		return
	}
	s.UnlockedAlbumIDs = append(s.UnlockedAlbumIDs, albumID)
}
