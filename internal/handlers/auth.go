package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/connectify/backend/internal/models"
	"github.com/connectify/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is the validity of issued bearer tokens
const tokenTTL = 7 * 24 * time.Hour

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository) *AuthHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// authResponse is the payload returned after registration or login
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles user registration
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	// Reject duplicates before touching the store
	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already in use")
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		log.Printf("Error checking email uniqueness: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	if req.Username != "" {
		if _, err := h.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Username already taken")
		} else if !errors.Is(err, repositories.ErrUserNotFound) {
			log.Printf("Error checking username uniqueness: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	user := &models.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Avatar:   req.Avatar,
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		log.Printf("Error creating user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// Login authenticates with an email or username plus password. All failure
// modes share one message so the response does not reveal which part missed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByEmail(ctx, req.Identifier)
	if errors.Is(err, repositories.ErrUserNotFound) {
		user, err = h.userRepository.GetUserByUsername(ctx, req.Identifier)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
		}
		log.Printf("Error looking up user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// generateJWT generates a bearer token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
