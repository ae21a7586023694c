package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	infraevents "github.com/yujin9907/cloud-naitive/infrastructure/events"
	infragin "github.com/yujin9907/cloud-naitive/infrastructure/gin"
	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/internal/models"
	"github.com/yujin9907/cloud-naitive/internal/repository"
)

// PostStore is the persistence the handlers need. *repository.PostRepository implements it.
type PostStore interface {
	List(ctx context.Context, filter repository.ListFilter) ([]models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, post models.Post) (int64, error)
	Update(ctx context.Context, id int64, post models.Post) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// EventPublisher receives post lifecycle events. May be nil.
type EventPublisher interface {
	PublishAsync(event infraevents.PostEvent)
}

type PostHandler struct {
	store     PostStore
	publisher EventPublisher
	logger    infralogger.Logger
}

func NewPostHandler(store PostStore, publisher EventPublisher, log infralogger.Logger) *PostHandler {
	return &PostHandler{
		store:     store,
		publisher: publisher,
		logger:    log,
	}
}

// List handles GET /posts?keyword=.
func (h *PostHandler) List(c *gin.Context) {
	filter := repository.ListFilter{Keyword: c.Query("keyword")}

	posts, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.requestLogger(c).Error("Failed to list posts",
			infralogger.String("keyword", filter.Keyword),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetByID handles GET /posts/:id.
func (h *PostHandler) GetByID(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		h.requestLogger(c).Error("Failed to get post",
			infralogger.Int64("post_id", id),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Create handles POST /posts.
func (h *PostHandler) Create(c *gin.Context) {
	post, ok := h.bindPost(c)
	if !ok {
		return
	}

	id, err := h.store.Create(c.Request.Context(), post)
	if err != nil {
		h.requestLogger(c).Error("Failed to create post", infralogger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	h.requestLogger(c).Info("Post created", infralogger.Int64("post_id", id))
	h.publish(infraevents.NewPostEvent(infraevents.PostCreated, id, post.Title))

	c.JSON(http.StatusCreated, gin.H{"message": "Created", "id": id})
}

// Update handles PUT /posts/:id. Updating a missing id succeeds without effect.
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	post, ok := h.bindPost(c)
	if !ok {
		return
	}

	rows, err := h.store.Update(c.Request.Context(), id, post)
	if err != nil {
		h.requestLogger(c).Error("Failed to update post",
			infralogger.Int64("post_id", id),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	h.requestLogger(c).Info("Post updated",
		infralogger.Int64("post_id", id),
		infralogger.Int64("rows_affected", rows),
	)
	if rows > 0 {
		h.publish(infraevents.NewPostEvent(infraevents.PostUpdated, id, post.Title))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

// Delete handles DELETE /posts/:id. Deleting a missing id succeeds.
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}

	rows, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		h.requestLogger(c).Error("Failed to delete post",
			infralogger.Int64("post_id", id),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	h.requestLogger(c).Info("Post deleted",
		infralogger.Int64("post_id", id),
		infralogger.Int64("rows_affected", rows),
	)
	if rows > 0 {
		h.publish(infraevents.NewPostEvent(infraevents.PostDeleted, id, ""))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// bindPost decodes and validates the body, writing the 400 itself on failure.
func (h *PostHandler) bindPost(c *gin.Context) (models.Post, bool) {
	var input models.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.requestLogger(c).Debug("Invalid request body", infralogger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return models.Post{}, false
	}

	if err := input.Validate(); err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
			return models.Post{}, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Post{}, false
	}

	return input.ToPost(), true
}

func (h *PostHandler) publish(event infraevents.PostEvent) {
	if h.publisher == nil {
		return
	}
	h.publisher.PublishAsync(event)
}

// requestLogger returns the request-scoped logger stored by the request ID
// middleware, falling back to the handler's logger on bare routers.
func (h *PostHandler) requestLogger(c *gin.Context) infralogger.Logger {
	if _, ok := c.Get(infragin.RequestIDKey); ok {
		return infralogger.FromContext(c.Request.Context())
	}
	return h.logger
}

// parsePostID reads a non-negative integer :id, writing the 400 itself on failure.
// Zero is a valid id that matches no row.
func parsePostID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return 0, false
	}
	return id, true
}
