package models

import "time"

// Video is an analysis video embedded from YouTube, listed to subscribers.
type Video struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	YoutubeID   string    `db:"youtube_id" json:"youtubeId"`
	Description string    `db:"description" json:"description"`
	Published   bool      `db:"published" json:"published"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
