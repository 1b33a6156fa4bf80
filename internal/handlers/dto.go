package handlers

import (
	"time"

	"moodjournal/internal/models"
)

// EntryDTO renders the calendar date as YYYY-MM-DD and timestamps as RFC3339.
type EntryDTO struct {
	ID             int      `json:"id"`
	UserID         int      `json:"user_id"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Date           string   `json:"date"`
	Mood           *string  `json:"mood"`
	Tags           []string `json:"tags"`
	IsEncrypted    bool     `json:"is_encrypted"`
	EncryptionHint *string  `json:"encryption_hint,omitempty"`
	WordCount      int      `json:"word_count"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func ToEntryDTO(e models.Entry) EntryDTO {
	tags := []string(e.Tags)
	if tags == nil {
		tags = []string{}
	}
	return EntryDTO{
		ID:             e.ID,
		UserID:         e.UserID,
		Title:          e.Title,
		Content:        e.Content,
		Date:           formatDate(e.Date),
		Mood:           e.Mood,
		Tags:           tags,
		IsEncrypted:    e.IsEncrypted,
		EncryptionHint: e.EncryptionHint,
		WordCount:      e.WordCount,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      e.UpdatedAt.Format(time.RFC3339),
	}
}

func toEntryDTOs(entries []models.Entry) []EntryDTO {
	out := make([]EntryDTO, len(entries))
	for i, e := range entries {
		out[i] = ToEntryDTO(e)
	}
	return out
}

type TodoDTO struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
}

func ToTodoDTO(t models.Todo) TodoDTO {
	return TodoDTO{
		ID:        t.ID,
		Title:     t.Title,
		Date:      formatDate(t.Date),
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

// UserDTO never carries credentials or the sealed TOTP secret.
type UserDTO struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	AvatarURL        *string `json:"avatar_url,omitempty"`
	TwoFactorEnabled bool    `json:"two_factor_enabled"`
	ReminderEnabled  bool    `json:"reminder_enabled"`
	ReminderTime     *string `json:"reminder_time,omitempty"`
	IsAdmin          bool    `json:"is_admin"`
	CreatedAt        string  `json:"created_at"`
}

func ToUserDTO(u models.User) UserDTO {
	return UserDTO{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		AvatarURL:        u.AvatarURL,
		TwoFactorEnabled: u.TwoFactorEnabled,
		ReminderEnabled:  u.ReminderEnabled,
		ReminderTime:     u.ReminderTime,
		IsAdmin:          u.IsAdmin,
		CreatedAt:        u.CreatedAt.Format(time.RFC3339),
	}
}

type MediaDTO struct {
	ID        int    `json:"id"`
	EntryID   *int   `json:"entry_id"`
	MediaType string `json:"media_type"`
	FileName  string `json:"file_name"`
	FileSize  int64  `json:"file_size"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}
