package domain

import "time"

// Post is a published blog entry. Author is a denormalized copy of the
// author's display name taken at creation time; AuthorID references User.ID.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Author      string    `json:"author"`
	AuthorID    string    `json:"authorId"`
	PublishedAt time.Time `json:"publishedAt"`
}
