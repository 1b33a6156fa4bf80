package models

import "time"

type User struct {
	ID               int        `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	TwoFactorSecret  *string    `db:"two_factor_secret" json:"-"` // AES-GCM encrypted
	TwoFactorEnabled bool       `db:"two_factor_enabled" json:"two_factor_enabled"`
	AvatarURL        *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	ReminderTime     *string    `db:"reminder_time" json:"reminder_time,omitempty"` // HH:MM
	ReminderEnabled  bool       `db:"reminder_enabled" json:"reminder_enabled"`
	IsAdmin          bool       `db:"is_admin" json:"is_admin"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type Entry struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	Title          string    `db:"title" json:"title"`
	Content        string    `db:"content" json:"content"` // ciphertext when IsEncrypted
	Date           time.Time `db:"date" json:"date"`
	Mood           *string   `db:"mood" json:"mood"`
	Tags           StringSet `db:"tags" json:"tags"`
	IsEncrypted    bool      `db:"is_encrypted" json:"is_encrypted"`
	EncryptionHint *string   `db:"encryption_hint" json:"encryption_hint,omitempty"`
	WordCount      int       `db:"word_count" json:"word_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// MoodLabel returns the entry mood or "" when unset.
func (e Entry) MoodLabel() string {
	if e.Mood == nil {
		return ""
	}
	return *e.Mood
}

type Todo struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Date      time.Time `db:"date" json:"date"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	MediaImage = "image"
	MediaAudio = "audio"
)

type Media struct {
	ID        int       `db:"id" json:"id"`
	EntryID   *int      `db:"entry_id" json:"entry_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	MediaType string    `db:"media_type" json:"media_type"`
	FilePath  string    `db:"file_path" json:"file_path"`
	FileName  string    `db:"file_name" json:"file_name"`
	FileSize  int64     `db:"file_size" json:"file_size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Badge struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	BadgeType   string    `db:"badge_type" json:"badge_type"`
	BadgeName   string    `db:"badge_name" json:"badge_name"`
	Description *string   `db:"description" json:"description"`
	EarnedAt    time.Time `db:"earned_at" json:"earned_at"`
}

const (
	BuddyPending  = "pending"
	BuddyAccepted = "accepted"
)

type Buddy struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	BuddyID   int       `db:"buddy_id" json:"buddy_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BuddyView is an accepted buddy with their recent activity count.
type BuddyView struct {
	ID              int       `db:"id" json:"id"`
	BuddyID         int       `db:"buddy_id" json:"buddy_id"`
	BuddyName       string    `db:"buddy_name" json:"buddy_name"`
	BuddyEmail      string    `db:"buddy_email" json:"buddy_email"`
	EntriesThisWeek int       `db:"entries_this_week" json:"entries_this_week"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// BuddyRequest is an incoming pending request with the requester's details.
type BuddyRequest struct {
	ID             int       `db:"id" json:"id"`
	RequesterID    int       `db:"user_id" json:"user_id"`
	RequesterName  string    `db:"requester_name" json:"requester_name"`
	RequesterEmail string    `db:"requester_email" json:"requester_email"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Template struct {
	ID            int     `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	NameTr        *string `db:"name_tr" json:"name_tr"`
	Description   *string `db:"description" json:"description"`
	DescriptionTr *string `db:"description_tr" json:"description_tr"`
	Content       string  `db:"content" json:"content"`
	ContentTr     *string `db:"content_tr" json:"content_tr"`
	Icon          *string `db:"icon" json:"icon"`
	IsDefault     bool    `db:"is_default" json:"is_default"`
}

type Quote struct {
	ID      int     `db:"id" json:"id"`
	Quote   string  `db:"quote" json:"quote"`
	QuoteTr *string `db:"quote_tr" json:"quote_tr"`
	Author  *string `db:"author" json:"author"`
}
