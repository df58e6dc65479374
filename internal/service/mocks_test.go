package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"socialplay/internal/model"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Each mock implements a repository interface with optional function fields.
// A nil field falls back to a harmless default so tests only wire what they use.

type mockUserRepository struct {
	createFn          func(ctx context.Context, user *model.User) error
	getByIDFn         func(ctx context.Context, id int64) (*model.User, error)
	getByIdentifierFn func(ctx context.Context, identifier string) (*model.User, error)
	existsFn          func(ctx context.Context, username, email string) (bool, error)
	updateProfileFn   func(ctx context.Context, userID int64, update model.ProfileUpdate) error

	createCalls []*model.User
	updateCalls []model.ProfileUpdate
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	if m.getByIdentifierFn != nil {
		return m.getByIdentifierFn(ctx, identifier)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, username, email)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, userID int64, update model.ProfileUpdate) error {
	m.updateCalls = append(m.updateCalls, update)
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, userID, update)
	}
	return nil
}

type mockSessionRepository struct {
	sessions    map[string]*model.Session
	deleteCalls []string
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: map[string]*model.Session{}}
}

func (m *mockSessionRepository) Create(ctx context.Context, session *model.Session) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}

func (m *mockSessionRepository) Delete(ctx context.Context, id string) error {
	m.deleteCalls = append(m.deleteCalls, id)
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type mockPostRepository struct {
	existsFn func(ctx context.Context, postID int64) (bool, error)
	listFn   func(ctx context.Context) ([]model.PostWithAuthor, error)

	createErr   error
	createCalls []model.Post
}

func (m *mockPostRepository) Create(ctx context.Context, userID int64, content, mediaPath *string) (*model.Post, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	p := model.Post{ID: int64(len(m.createCalls) + 1), UserID: userID, Content: content, MediaPath: mediaPath}
	m.createCalls = append(m.createCalls, p)
	return &p, nil
}

func (m *mockPostRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID)
	}
	return true, nil
}

func (m *mockPostRepository) ListWithAuthors(ctx context.Context) ([]model.PostWithAuthor, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockCommentRepository struct {
	listFn func(ctx context.Context) ([]model.CommentWithAuthor, error)

	createCalls []model.Comment
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error) {
	c := model.Comment{ID: int64(len(m.createCalls) + 1), PostID: postID, UserID: userID, Content: content}
	m.createCalls = append(m.createCalls, c)
	return &c, nil
}

func (m *mockCommentRepository) ListWithAuthors(ctx context.Context) ([]model.CommentWithAuthor, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockScoreRepository struct {
	bestFn        func(ctx context.Context, userID int64) ([]model.BestScore, error)
	leaderboardFn func(ctx context.Context, game string, limit int) ([]model.RankingEntry, error)

	createCalls []model.Score
}

func (m *mockScoreRepository) Create(ctx context.Context, userID int64, game string, score int64) (*model.Score, error) {
	s := model.Score{ID: int64(len(m.createCalls) + 1), UserID: userID, Game: game, Score: score}
	m.createCalls = append(m.createCalls, s)
	return &s, nil
}

func (m *mockScoreRepository) BestByUser(ctx context.Context, userID int64) ([]model.BestScore, error) {
	if m.bestFn != nil {
		return m.bestFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockScoreRepository) Leaderboard(ctx context.Context, game string, limit int) ([]model.RankingEntry, error) {
	if m.leaderboardFn != nil {
		return m.leaderboardFn(ctx, game, limit)
	}
	return nil, nil
}

type mockChatRepository struct {
	messages []model.ChatMessage
}

func (m *mockChatRepository) Append(ctx context.Context, userID int64, role, content string) (*model.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	msg := model.ChatMessage{ID: int64(len(m.messages) + 1), UserID: userID, Role: role, Content: content}
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *mockChatRepository) ListByUser(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, msg := range m.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// =============================================================================
// MOCK STORE & INFERENCE CLIENT
// =============================================================================

type storedObject struct {
	Kind        string
	Name        string
	Data        []byte
	ContentType string
}

type mockStore struct {
	putErr  error
	puts    []storedObject
	deleted []string
}

func (m *mockStore) Put(ctx context.Context, kind, name string, body io.Reader, contentType string) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	m.puts = append(m.puts, storedObject{Kind: kind, Name: name, Data: buf.Bytes(), ContentType: contentType})
	return kind + "/" + name, nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockStore) URL(key string) string {
	return "/uploads/" + key
}

type mockInference struct {
	reply    string
	err      error
	delay    time.Duration
	prompts  []string
	endpoint string
}

func (m *mockInference) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.reply, m.err
}

func (m *mockInference) Endpoint() string {
	return m.endpoint
}

const testDefaultAvatar = "/static/img/default-avatar.png"

func newTestMediaService(store *mockStore) *MediaService {
	svc := NewMediaService(store, testDefaultAvatar)
	svc.now = func() time.Time { return time.Unix(0, 42) }
	return svc
}
