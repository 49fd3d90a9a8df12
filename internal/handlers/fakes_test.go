package handlers

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/connectify/backend/internal/models"
	"github.com/connectify/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes shared by the handler tests. They mirror the
// Mongo implementations' observable behavior (ordering, sentinel errors,
// get-or-create identity) without a live database.

type fakeUserRepo struct {
	users []*models.User
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) byID(id string) *models.User {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			return u
		}
	}
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if u := f.byID(id); u != nil {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username != "" && u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (*models.User, error) {
	u := f.byID(id)
	if u == nil {
		return nil, repositories.ErrUserNotFound
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Avatar != nil {
		u.Avatar = *req.Avatar
	}
	return u, nil
}

func (f *fakeUserRepo) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	q := strings.ToLower(query)
	out := []models.User{}
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Username), q) {
			out = append(out, *u)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetAllExcept(ctx context.Context, userID string, limit int64) ([]models.User, error) {
	out := []models.User{}
	for _, u := range f.users {
		if u.ID.Hex() != userID {
			out = append(out, *u)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetSuggested(ctx context.Context, userID string, following []string, limit int64) ([]models.User, error) {
	excluded := map[string]bool{userID: true}
	for _, id := range following {
		excluded[id] = true
	}
	out := []models.User{}
	for _, u := range f.users {
		if !excluded[u.ID.Hex()] {
			out = append(out, *u)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := []models.User{}
	for _, u := range f.users {
		if wanted[u.ID.Hex()] {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) AddFollowing(ctx context.Context, userID, targetID string) error {
	u := f.byID(userID)
	if u == nil {
		return repositories.ErrUserNotFound
	}
	u.Following = append(u.Following, targetID)
	return nil
}

func (f *fakeUserRepo) AddFollower(ctx context.Context, userID, followerID string) error {
	u := f.byID(userID)
	if u == nil {
		return repositories.ErrUserNotFound
	}
	u.Followers = append(u.Followers, followerID)
	return nil
}

func (f *fakeUserRepo) RemoveFollowing(ctx context.Context, userID, targetID string) error {
	u := f.byID(userID)
	if u == nil {
		return repositories.ErrUserNotFound
	}
	u.Following = remove(u.Following, targetID)
	return nil
}

func (f *fakeUserRepo) RemoveFollower(ctx context.Context, userID, followerID string) error {
	u := f.byID(userID)
	if u == nil {
		return repositories.ErrUserNotFound
	}
	u.Followers = remove(u.Followers, followerID)
	return nil
}

func remove(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

type fakePostRepo struct {
	posts []*models.Post
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	f.posts = append(f.posts, post)
	return nil
}

func (f *fakePostRepo) byID(id string) *models.Post {
	for _, p := range f.posts {
		if p.ID.Hex() == id {
			return p
		}
	}
	return nil
}

func (f *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	p := f.byID(id)
	if p == nil {
		return nil, repositories.ErrPostNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePostRepo) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	out := make([]models.Post, 0, len(f.posts))
	for i := len(f.posts) - 1; i >= 0; i-- {
		out = append(out, *f.posts[i])
	}
	return out, nil
}

func (f *fakePostRepo) AddLike(ctx context.Context, postID, userID string) error {
	p := f.byID(postID)
	if p == nil {
		return repositories.ErrPostNotFound
	}
	p.Likes = append(p.Likes, userID)
	return nil
}

func (f *fakePostRepo) RemoveLike(ctx context.Context, postID, userID string) error {
	p := f.byID(postID)
	if p == nil {
		return repositories.ErrPostNotFound
	}
	p.Likes = remove(p.Likes, userID)
	return nil
}

func (f *fakePostRepo) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	p := f.byID(postID)
	if p == nil {
		return repositories.ErrPostNotFound
	}
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	p.Comments = append(p.Comments, *comment)
	return nil
}

func (f *fakePostRepo) RemoveComment(ctx context.Context, postID, commentID string) error {
	p := f.byID(postID)
	if p == nil {
		return repositories.ErrPostNotFound
	}
	kept := p.Comments[:0]
	for _, c := range p.Comments {
		if c.ID.Hex() != commentID {
			kept = append(kept, c)
		}
	}
	p.Comments = kept
	return nil
}

type fakeChatRepo struct {
	chats []*models.Chat
}

func (f *fakeChatRepo) GetOrCreate(ctx context.Context, userA, userB string) (*models.Chat, bool, error) {
	members := []string{userA, userB}
	sort.Strings(members)
	key := strings.Join(members, ":")
	for _, c := range f.chats {
		if c.PairKey == key {
			return c, false, nil
		}
	}
	now := time.Now()
	chat := &models.Chat{
		ID:        primitive.NewObjectID(),
		Members:   members,
		PairKey:   key,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.chats = append(f.chats, chat)
	return chat, true, nil
}

func (f *fakeChatRepo) GetChatByID(ctx context.Context, id string) (*models.Chat, error) {
	for _, c := range f.chats {
		if c.ID.Hex() == id {
			return c, nil
		}
	}
	return nil, repositories.ErrChatNotFound
}

func (f *fakeChatRepo) GetChatsByMember(ctx context.Context, userID string) ([]models.Chat, error) {
	out := []models.Chat{}
	for _, c := range f.chats {
		for _, m := range c.Members {
			if m == userID {
				out = append(out, *c)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeChatRepo) Touch(ctx context.Context, chatID string, at time.Time) error {
	for _, c := range f.chats {
		if c.ID.Hex() == chatID {
			c.UpdatedAt = at
			return nil
		}
	}
	return repositories.ErrChatNotFound
}

type fakeMessageRepo struct {
	messages []*models.Message
}

func (f *fakeMessageRepo) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepo) GetByChatID(ctx context.Context, chatID string) ([]models.Message, error) {
	out := []models.Message{}
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMessageRepo) GetLatestByChatID(ctx context.Context, chatID string) (*models.Message, error) {
	messages, _ := f.GetByChatID(ctx, chatID)
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[len(messages)-1], nil
}

type fakeNotificationRepo struct {
	rows []*models.Notification
}

func (f *fakeNotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationRepo) FindRecent(ctx context.Context, recipient, sender, notifType, postID string, since time.Time) (*models.Notification, error) {
	for _, row := range f.rows {
		if row.Recipient == recipient && row.Sender == sender && row.Type == notifType && row.PostID == postID && !row.CreatedAt.Before(since) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) Refresh(ctx context.Context, id string, at time.Time) error {
	for _, row := range f.rows {
		if row.ID.Hex() == id {
			row.CreatedAt = at
			row.Read = false
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) GetByRecipient(ctx context.Context, recipient, notifType string, limit int64) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, row := range f.rows {
		if row.Recipient == recipient && (notifType == "" || row.Type == notifType) {
			out = append(out, *row)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(ctx context.Context, recipient string) (int64, error) {
	var count int64
	for _, row := range f.rows {
		if row.Recipient == recipient && !row.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, id string) error {
	for _, row := range f.rows {
		if row.ID.Hex() == id {
			row.Read = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipient string) error {
	for _, row := range f.rows {
		if row.Recipient == recipient {
			row.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, id string) error {
	for i, row := range f.rows {
		if row.ID.Hex() == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}
