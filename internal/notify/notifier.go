// Package notify implements the notification dedup policy: rapid repeats of
// the same event (like/unlike toggling, repeated comments) refresh one ledger
// row instead of piling up new ones.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/connectify/backend/internal/models"
	"github.com/connectify/backend/internal/repositories"
)

// DedupWindow is the trailing interval within which equivalent notifications
// are merged rather than duplicated.
const DedupWindow = time.Hour

// Candidate describes a notification that an action wants to raise.
type Candidate struct {
	Recipient      string
	Sender         string
	SenderName     string
	SenderUsername string
	SenderAvatar   string
	Type           string
	PostID         string
	PostContent    string
	CommentText    string
}

// Notifier applies the dedup policy on top of the ledger.
type Notifier struct {
	repo repositories.NotificationRepository
	now  func() time.Time
}

// New creates a Notifier backed by the given ledger.
func New(repo repositories.NotificationRepository) *Notifier {
	return &Notifier{repo: repo, now: time.Now}
}

// NewWithClock creates a Notifier with an injected clock, for tests.
func NewWithClock(repo repositories.NotificationRepository, now func() time.Time) *Notifier {
	return &Notifier{repo: repo, now: now}
}

// Upsert creates a new ledger row for the candidate, or refreshes an
// equivalent row created within the dedup window: its timestamp moves to now
// and its read flag resets, while its snapshot fields stay as first written.
// Self-notifications are a no-op. Storage failures are logged and swallowed;
// a nil return means "no notification raised" and is never fatal to the
// caller's action.
func (n *Notifier) Upsert(ctx context.Context, candidate Candidate) *models.Notification {
	if candidate.Recipient == candidate.Sender {
		return nil
	}

	now := n.now()
	recent, err := n.repo.FindRecent(ctx, candidate.Recipient, candidate.Sender, candidate.Type, candidate.PostID, now.Add(-DedupWindow))
	if err != nil {
		log.Printf("Error looking up recent notification: %v", err)
		return nil
	}

	if recent != nil {
		if err := n.repo.Refresh(ctx, recent.ID.Hex(), now); err != nil {
			log.Printf("Error refreshing notification %s: %v", recent.ID.Hex(), err)
			return nil
		}
		recent.CreatedAt = now
		recent.Read = false
		return recent
	}

	notification := &models.Notification{
		Recipient:      candidate.Recipient,
		Sender:         candidate.Sender,
		SenderName:     candidate.SenderName,
		SenderUsername: candidate.SenderUsername,
		SenderAvatar:   candidate.SenderAvatar,
		Type:           candidate.Type,
		PostID:         candidate.PostID,
		PostContent:    candidate.PostContent,
		CommentText:    candidate.CommentText,
		Read:           false,
		CreatedAt:      now,
	}
	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		log.Printf("Error creating notification: %v", err)
		return nil
	}
	return notification
}
