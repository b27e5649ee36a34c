package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-dashboard/internal/api/dto"
	"github.com/spec-kit/blog-dashboard/internal/auth"
	"github.com/spec-kit/blog-dashboard/internal/service"
	apperrors "github.com/spec-kit/blog-dashboard/pkg/util"
)

// PostsHandler exposes the post endpoints. All of them sit behind the auth
// middleware, so an identity is always present.
type PostsHandler struct {
	posts    *service.PostService
	validate *validator.Validate
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts *service.PostService, validate *validator.Validate) *PostsHandler {
	return &PostsHandler{posts: posts, validate: validate}
}

// List handles GET /posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	posts, err := h.posts.List(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(posts)
}

// Create handles POST /new-post.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.UserContext(), *identity, req.Title, req.Body)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Post added!",
		"post":    post,
	})
}

// GetByID handles GET /posts/:id.
func (h *PostsHandler) GetByID(c *fiber.Ctx) error {
	post, err := h.posts.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return apperrors.NewNotFound("post", fiber.Map{"id": c.Params("id")})
		}
		return apperrors.MapError(err)
	}
	return c.JSON(post)
}

// ListByAuthor handles GET /user-posts.
func (h *PostsHandler) ListByAuthor(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	posts, err := h.posts.ListByAuthor(c.UserContext(), identity.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(posts)
}

// Delete handles DELETE /delete-post/:id. Removing an id that does not
// exist still succeeds; removing someone else's post does not.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.posts.Delete(c.UserContext(), *identity, c.Params("id")); err != nil {
		if errors.Is(err, service.ErrNotPostAuthor) {
			return apperrors.NewForbidden("only the author may delete a post")
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted!",
	})
}
