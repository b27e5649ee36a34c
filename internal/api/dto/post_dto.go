package dto

// CreatePostRequest payload for new posts. Author fields are deliberately
// absent: they are always stamped from the verified caller identity.
type CreatePostRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}
