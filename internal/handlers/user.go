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

// UserHandler handles user profile and follow-graph HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	notifier       *notify.Notifier
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, notifier *notify.Notifier) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		notifier:       notifier,
	}
}

// RegisterUserRoutes registers user routes on the protected group
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/all", h.GetAllUsers)
	g.GET("/users/suggested", h.GetSuggestedUsers)
	g.GET("/users/following", h.GetFollowingList)
	g.GET("/users/followers", h.GetFollowersList)
	g.PUT("/users/profile", h.UpdateProfile)
	g.POST("/users/follow/:id", h.FollowUser)
	g.POST("/users/unfollow/:id", h.UnfollowUser)
}

// RegisterPublicUserRoutes registers routes that do not require a token
func (h *UserHandler) RegisterPublicUserRoutes(g *echo.Group) {
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUserByID)
}

// GetUserByID fetches a single user
func (h *UserHandler) GetUserByID(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Printf("Error fetching user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, user)
}

// SearchUsers finds users by name or username substring, case-insensitive
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query required")
	}

	users, err := h.userRepository.SearchUsers(c.Request().Context(), query, 20)
	if err != nil {
		log.Printf("Error searching users: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, users)
}

// GetAllUsers returns everyone but the caller, for the chat partner picker
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	users, err := h.userRepository.GetAllExcept(c.Request().Context(), currentUserID(c), 50)
	if err != nil {
		log.Printf("Error fetching users: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, users)
}

// GetSuggestedUsers returns users the caller does not follow yet
func (h *UserHandler) GetSuggestedUsers(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	current, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Printf("Error fetching user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	users, err := h.userRepository.GetSuggested(ctx, userID, current.Following, 10)
	if err != nil {
		log.Printf("Error fetching suggested users: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, users)
}

// GetFollowingList returns full user records for everyone the caller follows
func (h *UserHandler) GetFollowingList(c echo.Context) error {
	return h.hydratedList(c, func(u *models.User) []string { return u.Following })
}

// GetFollowersList returns full user records for the caller's followers
func (h *UserHandler) GetFollowersList(c echo.Context) error {
	return h.hydratedList(c, func(u *models.User) []string { return u.Followers })
}

func (h *UserHandler) hydratedList(c echo.Context, pick func(*models.User) []string) error {
	ctx := c.Request().Context()

	current, err := h.userRepository.GetUserByID(ctx, currentUserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Printf("Error fetching user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	users, err := h.userRepository.GetUsersByIDs(ctx, pick(current))
	if err != nil {
		log.Printf("Error hydrating user list: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateProfile updates the caller's own profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID := currentUserID(c)

	// Username must stay unique across other users
	if req.Username != nil && *req.Username != "" {
		existing, err := h.userRepository.GetUserByUsername(ctx, *req.Username)
		if err == nil && existing.ID.Hex() != userID {
			return echo.NewHTTPError(http.StatusBadRequest, "Username already taken")
		}
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			log.Printf("Error checking username uniqueness: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
	}

	user, err := h.userRepository.UpdateProfile(ctx, userID, req)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Printf("Error updating profile: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// FollowUser adds the target to the caller's following list and the caller
// to the target's followers list. The two writes are separate; a failure
// between them leaves a partial state (no cross-document atomicity promised).
func (h *UserHandler) FollowUser(c echo.Context) error {
	ctx := c.Request().Context()
	targetID := c.Param("id")
	userID := currentUserID(c)

	if targetID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}

	current, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Printf("Error fetching user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	if _, err := h.userRepository.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Printf("Error fetching target user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	for _, id := range current.Following {
		if id == targetID {
			return echo.NewHTTPError(http.StatusBadRequest, "Already following this user")
		}
	}

	if err := h.userRepository.AddFollowing(ctx, userID, targetID); err != nil {
		log.Printf("Error adding following: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	if err := h.userRepository.AddFollower(ctx, targetID, userID); err != nil {
		log.Printf("Error adding follower: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.notifier.Upsert(ctx, notify.Candidate{
		Recipient:      targetID,
		Sender:         userID,
		SenderName:     current.Name,
		SenderUsername: current.Username,
		SenderAvatar:   current.Avatar,
		Type:           models.NotificationFollow,
	})

	return c.JSON(http.StatusOK, echo.Map{"msg": "User followed successfully"})
}

// UnfollowUser removes the follow relationship, symmetric to FollowUser
func (h *UserHandler) UnfollowUser(c echo.Context) error {
	ctx := c.Request().Context()
	targetID := c.Param("id")
	userID := currentUserID(c)

	if _, err := h.userRepository.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Printf("Error fetching target user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	if err := h.userRepository.RemoveFollowing(ctx, userID, targetID); err != nil {
		log.Printf("Error removing following: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	if err := h.userRepository.RemoveFollower(ctx, targetID, userID); err != nil {
		log.Printf("Error removing follower: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"msg": "User unfollowed successfully"})
}
