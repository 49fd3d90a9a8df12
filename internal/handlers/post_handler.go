package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/connectify/backend/internal/models"
	"github.com/connectify/backend/internal/notify"
	"github.com/connectify/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// postPreviewLen caps the post-content snippet stored on notifications
const postPreviewLen = 80

// PostHandler handles post and engagement HTTP requests
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	notifier       *notify.Notifier
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifier *notify.Notifier) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		notifier:       notifier,
	}
}

// RegisterPostRoutes registers post routes on the protected group
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts/create", h.CreatePost)
	g.PUT("/posts/like/:id", h.ToggleLike)
	g.POST("/posts/comment/:id", h.AddComment)
	g.DELETE("/posts/comment/:id/:commentId", h.DeleteComment)
}

// RegisterPublicPostRoutes registers routes that do not require a token
func (h *PostHandler) RegisterPublicPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
}

// CreatePost creates a post, snapshotting the author's handle and avatar
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	author, err := h.userRepository.GetUserByID(ctx, currentUserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Printf("Error fetching author: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	post := &models.Post{
		UserID:     author.ID.Hex(),
		Username:   author.Username,
		UserAvatar: author.Avatar,
		Content:    req.Content,
		Image:      req.Image,
		Video:      req.Video,
	}
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		log.Printf("Error creating post: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPosts returns the global post list, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.postRepository.GetAllPosts(c.Request().Context())
	if err != nil {
		log.Printf("Error fetching posts: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, posts)
}

// ToggleLike likes or unlikes a post for the caller. The read-modify-write
// is not serialized against concurrent toggles from the same user.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	ctx := c.Request().Context()
	postID := c.Param("id")
	userID := currentUserID(c)

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error fetching post: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	liked := false
	for _, id := range post.Likes {
		if id == userID {
			liked = true
			break
		}
	}

	if liked {
		if err := h.postRepository.RemoveLike(ctx, postID, userID); err != nil {
			log.Printf("Error removing like: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
	} else {
		if err := h.postRepository.AddLike(ctx, postID, userID); err != nil {
			log.Printf("Error adding like: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
		h.notifyEngagement(c, post, models.NotificationLike, "")
	}

	updated, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		log.Printf("Error re-fetching post: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, updated)
}

// AddComment appends a comment to the post's embedded list
func (h *PostHandler) AddComment(c echo.Context) error {
	var req models.AddCommentRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error fetching post: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	author, err := h.userRepository.GetUserByID(ctx, currentUserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Printf("Error fetching commenter: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	comment := &models.Comment{
		UserID:   author.ID.Hex(),
		Username: author.Username,
		Text:     req.Text,
	}
	if err := h.postRepository.AddComment(ctx, postID, comment); err != nil {
		log.Printf("Error adding comment: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.notifyEngagement(c, post, models.NotificationComment, req.Text)

	return c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment by id. Any authenticated caller who can
// reach the post may delete any comment on it; there is deliberately no
// ownership check beyond route access control.
func (h *PostHandler) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	postID := c.Param("id")
	commentID := c.Param("commentId")

	if _, err := h.postRepository.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error fetching post: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	if err := h.postRepository.RemoveComment(ctx, postID, commentID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error deleting comment: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"msg": "Comment deleted"})
}

// notifyEngagement raises a like/comment notification to the post author.
// Failures are absorbed by the notifier; the engagement itself already stuck.
func (h *PostHandler) notifyEngagement(c echo.Context, post *models.Post, notifType, commentText string) {
	ctx := c.Request().Context()

	sender, err := h.userRepository.GetUserByID(ctx, currentUserID(c))
	if err != nil {
		log.Printf("Error fetching notification sender: %v", err)
		return
	}

	preview := post.Content
	if len(preview) > postPreviewLen {
		preview = preview[:postPreviewLen]
	}

	h.notifier.Upsert(ctx, notify.Candidate{
		Recipient:      post.UserID,
		Sender:         sender.ID.Hex(),
		SenderName:     sender.Name,
		SenderUsername: sender.Username,
		SenderAvatar:   sender.Avatar,
		Type:           notifType,
		PostID:         post.ID.Hex(),
		PostContent:    preview,
		CommentText:    commentText,
	})
}
