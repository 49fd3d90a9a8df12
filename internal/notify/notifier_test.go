package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/connectify/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ledgerFake is an in-memory NotificationRepository covering what the
// notifier touches.
type ledgerFake struct {
	rows       []*models.Notification
	failCreate bool
	failFind   bool
}

func (f *ledgerFake) CreateNotification(ctx context.Context, n *models.Notification) error {
	if f.failCreate {
		return errors.New("storage unavailable")
	}
	n.ID = primitive.NewObjectID()
	f.rows = append(f.rows, n)
	return nil
}

func (f *ledgerFake) FindRecent(ctx context.Context, recipient, sender, notifType, postID string, since time.Time) (*models.Notification, error) {
	if f.failFind {
		return nil, errors.New("storage unavailable")
	}
	for _, row := range f.rows {
		if row.Recipient == recipient && row.Sender == sender && row.Type == notifType && row.PostID == postID && !row.CreatedAt.Before(since) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *ledgerFake) Refresh(ctx context.Context, id string, at time.Time) error {
	for _, row := range f.rows {
		if row.ID.Hex() == id {
			row.CreatedAt = at
			row.Read = false
			return nil
		}
	}
	return errors.New("notification not found")
}

func (f *ledgerFake) GetByRecipient(ctx context.Context, recipient, notifType string, limit int64) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, row := range f.rows {
		if row.Recipient == recipient && (notifType == "" || row.Type == notifType) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *ledgerFake) GetUnreadCount(ctx context.Context, recipient string) (int64, error) {
	var count int64
	for _, row := range f.rows {
		if row.Recipient == recipient && !row.Read {
			count++
		}
	}
	return count, nil
}

func (f *ledgerFake) MarkAsRead(ctx context.Context, id string) error {
	for _, row := range f.rows {
		if row.ID.Hex() == id {
			row.Read = true
			return nil
		}
	}
	return errors.New("notification not found")
}

func (f *ledgerFake) MarkAllAsRead(ctx context.Context, recipient string) error {
	for _, row := range f.rows {
		if row.Recipient == recipient {
			row.Read = true
		}
	}
	return nil
}

func (f *ledgerFake) Delete(ctx context.Context, id string) error {
	for i, row := range f.rows {
		if row.ID.Hex() == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("notification not found")
}

func likeCandidate() Candidate {
	return Candidate{
		Recipient:   "alice",
		Sender:      "bob",
		SenderName:  "Bob",
		Type:        models.NotificationLike,
		PostID:      "post-1",
		PostContent: "hello",
	}
}

func TestUpsertSelfNotificationIsNoOp(t *testing.T) {
	repo := &ledgerFake{}
	n := New(repo)

	candidate := likeCandidate()
	candidate.Recipient = candidate.Sender

	result := n.Upsert(context.Background(), candidate)
	assert.Nil(t, result)
	assert.Empty(t, repo.rows)
}

func TestUpsertCreatesFreshRow(t *testing.T) {
	repo := &ledgerFake{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := NewWithClock(repo, func() time.Time { return now })

	result := n.Upsert(context.Background(), likeCandidate())
	require.NotNil(t, result)
	require.Len(t, repo.rows, 1)
	assert.False(t, result.Read)
	assert.Equal(t, now, result.CreatedAt)
	assert.Equal(t, "Bob", result.SenderName)
}

func TestUpsertWithinWindowRefreshesInPlace(t *testing.T) {
	repo := &ledgerFake{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := NewWithClock(repo, func() time.Time { return now })

	first := n.Upsert(context.Background(), likeCandidate())
	require.NotNil(t, first)

	// Recipient dismisses it, then the sender re-likes 30 minutes later
	require.NoError(t, repo.MarkAsRead(context.Background(), first.ID.Hex()))
	now = now.Add(30 * time.Minute)

	second := n.Upsert(context.Background(), likeCandidate())
	require.NotNil(t, second)

	require.Len(t, repo.rows, 1, "dedup must not add a second row")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, now, repo.rows[0].CreatedAt, "timestamp must move to the second call")
	assert.False(t, repo.rows[0].Read, "refresh resurrects the row as unread")
}

func TestUpsertAfterWindowCreatesSecondRow(t *testing.T) {
	repo := &ledgerFake{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := NewWithClock(repo, func() time.Time { return now })

	first := n.Upsert(context.Background(), likeCandidate())
	require.NotNil(t, first)

	now = now.Add(DedupWindow + time.Minute)

	second := n.Upsert(context.Background(), likeCandidate())
	require.NotNil(t, second)

	require.Len(t, repo.rows, 2)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpsertDistinguishesTypeAndSubject(t *testing.T) {
	repo := &ledgerFake{}
	n := New(repo)

	n.Upsert(context.Background(), likeCandidate())

	comment := likeCandidate()
	comment.Type = models.NotificationComment
	n.Upsert(context.Background(), comment)

	otherPost := likeCandidate()
	otherPost.PostID = "post-2"
	n.Upsert(context.Background(), otherPost)

	assert.Len(t, repo.rows, 3)
}

func TestUpsertSwallowsStorageFailures(t *testing.T) {
	repo := &ledgerFake{failCreate: true}
	n := New(repo)
	assert.Nil(t, n.Upsert(context.Background(), likeCandidate()))

	repo = &ledgerFake{failFind: true}
	n = New(repo)
	assert.Nil(t, n.Upsert(context.Background(), likeCandidate()))
	assert.Empty(t, repo.rows)
}
