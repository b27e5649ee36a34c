package store

import (
	"context"

	"github.com/spec-kit/blog-dashboard/internal/domain"
)

// Snapshot is the whole persisted state of the service. Backends load and
// save it as one unit; there is no partial-update protocol.
type Snapshot struct {
	Users []domain.User `json:"users"`
	Posts []domain.Post `json:"posts"`
}

// Store is the record store contract. Update runs its function against the
// current snapshot and persists the result atomically; concurrent writers
// are serialized by every backend. View functions must not mutate the
// snapshot they are handed.
type Store interface {
	View(ctx context.Context, fn func(*Snapshot) error) error
	Update(ctx context.Context, fn func(*Snapshot) error) error
	Ping(ctx context.Context) error
	Close() error
}

// UserByEmail returns the user with the given email, or nil.
func (s *Snapshot) UserByEmail(email string) *domain.User {
	for i := range s.Users {
		if s.Users[i].Email == email {
			return &s.Users[i]
		}
	}
	return nil
}

// PostByID returns the post with the given id, or nil.
func (s *Snapshot) PostByID(id string) *domain.Post {
	for i := range s.Posts {
		if s.Posts[i].ID == id {
			return &s.Posts[i]
		}
	}
	return nil
}

func (s *Snapshot) clone() *Snapshot {
	cloned := &Snapshot{
		Users: make([]domain.User, len(s.Users)),
		Posts: make([]domain.Post, len(s.Posts)),
	}
	copy(cloned.Users, s.Users)
	copy(cloned.Posts, s.Posts)
	return cloned
}
