package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/connectify/backend/internal/models"
	"github.com/connectify/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles durable message HTTP requests. The real-time relay
// is separate (internal/ws) and never touches this path.
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	chatRepository    repositories.ChatRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, chatRepo repositories.ChatRepository) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		chatRepository:    chatRepo,
	}
}

// RegisterMessageRoutes registers message routes on the protected group
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/message/send", h.SendMessage)
	g.GET("/message/:chatId", h.GetMessages)
}

// SendMessage appends a message to a chat and bumps the chat's recency
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req models.SendMessageRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	if _, err := h.chatRepository.GetChatByID(ctx, req.ChatID); err != nil {
		if errors.Is(err, repositories.ErrChatNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
		}
		log.Printf("Error fetching chat: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	message := &models.Message{
		ChatID:   req.ChatID,
		SenderID: req.SenderID,
		Text:     req.Text,
	}
	if err := h.messageRepository.CreateMessage(ctx, message); err != nil {
		log.Printf("Error creating message: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	// Best effort; the message is already durable
	if err := h.chatRepository.Touch(ctx, req.ChatID, time.Now()); err != nil {
		log.Printf("Error touching chat %s: %v", req.ChatID, err)
	}

	return c.JSON(http.StatusCreated, message)
}

// GetMessages returns the full history of a chat, oldest first
func (h *MessageHandler) GetMessages(c echo.Context) error {
	messages, err := h.messageRepository.GetByChatID(c.Request().Context(), c.Param("chatId"))
	if err != nil {
		log.Printf("Error fetching messages: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, messages)
}
