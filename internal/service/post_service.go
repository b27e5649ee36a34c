package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/blog-dashboard/internal/domain"
	"github.com/spec-kit/blog-dashboard/internal/events"
	"github.com/spec-kit/blog-dashboard/internal/store"
)

// Post manager failures.
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostAuthor = errors.New("caller is not the post author")
)

// PostService coordinates post workflows. Every operation takes the verified
// caller identity explicitly where it matters; nothing is read from ambient
// request state.
type PostService struct {
	store      store.Store
	dispatcher events.Dispatcher
}

// NewPostService builds the service.
func NewPostService(st store.Store, dispatcher events.Dispatcher) *PostService {
	return &PostService{store: st, dispatcher: dispatcher}
}

// Create publishes a new post. Author and AuthorID come from the verified
// identity; any client-supplied values for those fields are ignored.
func (s *PostService) Create(ctx context.Context, identity domain.Identity, title, body string) (*domain.Post, error) {
	post := domain.Post{
		ID:          uuid.NewString(),
		Title:       title,
		Body:        body,
		Author:      identity.Name,
		AuthorID:    identity.ID,
		PublishedAt: time.Now().UTC(),
	}

	err := s.store.Update(ctx, func(snap *store.Snapshot) error {
		snap.Posts = append(snap.Posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPostCreated, identity, events.PostCreatedPayload{PostID: post.ID, Title: post.Title})
	return &post, nil
}

// List returns all posts in storage order. Sorting is a presentation
// concern left to callers.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := s.store.View(ctx, func(snap *store.Snapshot) error {
		posts = append([]domain.Post{}, snap.Posts...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID fetches a single post.
func (s *PostService) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var post *domain.Post
	err := s.store.View(ctx, func(snap *store.Snapshot) error {
		if found := snap.PostByID(id); found != nil {
			copied := *found
			post = &copied
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ListByAuthor returns the posts written by the given author.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	posts := []domain.Post{}
	err := s.store.View(ctx, func(snap *store.Snapshot) error {
		for _, post := range snap.Posts {
			if post.AuthorID == authorID {
				posts = append(posts, post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes a post. Deleting an id that does not exist succeeds without
// touching the collection. When the post exists, only its author may remove
// it.
func (s *PostService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	deleted := false
	err := s.store.Update(ctx, func(snap *store.Snapshot) error {
		post := snap.PostByID(id)
		if post == nil {
			return nil
		}
		if post.AuthorID != identity.ID {
			return ErrNotPostAuthor
		}

		remaining := snap.Posts[:0]
		for _, p := range snap.Posts {
			if p.ID != id {
				remaining = append(remaining, p)
			}
		}
		snap.Posts = remaining
		deleted = true
		return nil
	})
	if err != nil {
		return err
	}

	if deleted {
		s.publish(ctx, events.EventPostDeleted, identity, events.PostDeletedPayload{PostID: id})
	}
	return nil
}

func (s *PostService) publish(ctx context.Context, eventType events.EventType, actor domain.Identity, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{UserID: actor.ID, Name: actor.Name},
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
