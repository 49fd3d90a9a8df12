package handlers

import (
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/connectify/backend/internal/models"
	"github.com/connectify/backend/internal/repositories"
	"github.com/connectify/backend/internal/unread"
	"github.com/labstack/echo/v4"
)

// ChatHandler handles chat-level HTTP requests
type ChatHandler struct {
	chatRepository    repositories.ChatRepository
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, userRepo repositories.UserRepository) *ChatHandler {
	return &ChatHandler{
		chatRepository:    chatRepo,
		messageRepository: messageRepo,
		userRepository:    userRepo,
	}
}

// RegisterChatRoutes registers chat routes on the protected group
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/chat", h.CreateChat)
	g.GET("/chat/:userId", h.GetUserChats)
	g.GET("/chat/:userId/previews", h.GetChatPreviews)
	g.POST("/chat/:userId/unread", h.GetUnreadChatCount)
}

// CreateChat fetches or creates the chat for a member pair. The member order
// in the request does not matter.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req models.CreateChatRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	chat, _, err := h.chatRepository.GetOrCreate(c.Request().Context(), req.SenderID, req.ReceiverID)
	if err != nil {
		log.Printf("Error creating chat: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusCreated, chat)
}

// GetUserChats lists all chats for a user, most recently updated first
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	chats, err := h.chatRepository.GetChatsByMember(c.Request().Context(), c.Param("userId"))
	if err != nil {
		log.Printf("Error fetching chats: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, chats)
}

// ChatPreview is one entry of the assembled chat list
type ChatPreview struct {
	ChatID      string          `json:"chatId"`
	Other       *models.User    `json:"user"`
	LastMessage *models.Message `json:"lastMessage"`
}

// GetChatPreviews assembles the chat list: for each chat the other member
// and the newest message, skipping chats with no messages yet. The per-chat
// lookups fan out concurrently and are awaited before responding; a chat
// whose lookups fail is dropped from the list rather than failing the whole
// response.
func (h *ChatHandler) GetChatPreviews(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("userId")

	chats, err := h.chatRepository.GetChatsByMember(ctx, userID)
	if err != nil {
		log.Printf("Error fetching chats: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	previews := make([]*ChatPreview, len(chats))
	var wg sync.WaitGroup
	for i, chat := range chats {
		wg.Add(1)
		go func(i int, chat models.Chat) {
			defer wg.Done()

			otherID := chat.OtherMember(userID)
			if otherID == "" {
				return
			}

			other, err := h.userRepository.GetUserByID(ctx, otherID)
			if err != nil {
				log.Printf("Error fetching chat member %s: %v", otherID, err)
				return
			}
			last, err := h.messageRepository.GetLatestByChatID(ctx, chat.ID.Hex())
			if err != nil {
				log.Printf("Error fetching latest message for chat %s: %v", chat.ID.Hex(), err)
				return
			}
			if last == nil {
				return
			}
			previews[i] = &ChatPreview{ChatID: chat.ID.Hex(), Other: other, LastMessage: last}
		}(i, chat)
	}
	wg.Wait()

	result := make([]*ChatPreview, 0, len(previews))
	for _, p := range previews {
		if p != nil {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastMessage.CreatedAt.After(result[j].LastMessage.CreatedAt)
	})

	return c.JSON(http.StatusOK, result)
}

// UnreadCountRequest carries the client-persisted last-seen map
type UnreadCountRequest struct {
	LastSeen map[string]time.Time `json:"lastSeen"`
}

// GetUnreadChatCount counts chats whose newest message from the other party
// is unseen per the client-side last-seen map. Best-effort presence hint,
// not a read-receipt system.
func (h *ChatHandler) GetUnreadChatCount(c echo.Context) error {
	var req UnreadCountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	ctx := c.Request().Context()
	userID := c.Param("userId")

	chats, err := h.chatRepository.GetChatsByMember(ctx, userID)
	if err != nil {
		log.Printf("Error fetching chats: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	digests := make([]unread.ChatDigest, 0, len(chats))
	for _, chat := range chats {
		otherID := chat.OtherMember(userID)
		if otherID == "" {
			continue
		}

		messages, err := h.messageRepository.GetByChatID(ctx, chat.ID.Hex())
		if err != nil {
			log.Printf("Error fetching messages for chat %s: %v", chat.ID.Hex(), err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}

		digest := unread.ChatDigest{OtherUserID: otherID}
		for _, m := range messages {
			if m.SenderID == otherID {
				digest.HasTheirMessages = true
				if m.CreatedAt.After(digest.LastTheirsAt) {
					digest.LastTheirsAt = m.CreatedAt
				}
			}
		}
		digests = append(digests, digest)
	}

	return c.JSON(http.StatusOK, echo.Map{"count": unread.Count(digests, req.LastSeen)})
}
