package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"socialplay/internal/config"
	"socialplay/internal/database"
	"socialplay/internal/model"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fixClock makes every insert use the same timestamp so that ordering falls
// back to row ids.
func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func createUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// =============================================================================
// User Repository
// =============================================================================

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "alice")
	if alice.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}

	byName, err := repo.GetByIdentifier(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByIdentifier(username): %v", err)
	}
	byEmail, err := repo.GetByIdentifier(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByIdentifier(email): %v", err)
	}
	if byName.ID != alice.ID || byEmail.ID != alice.ID {
		t.Errorf("lookups returned ids %d/%d, want %d", byName.ID, byEmail.ID, alice.ID)
	}

	if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("GetByID(unknown) err = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_DuplicateIsRejected(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "alice")

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "someone", "alice@example.com")
	if err != nil {
		t.Fatalf("ExistsByUsernameOrEmail: %v", err)
	}
	if !exists {
		t.Error("expected email to be reported as taken")
	}

	dup := &model.User{Username: "alice", Email: "other@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, dup); !errors.Is(err, model.ErrCredentialsTaken) {
		t.Fatalf("Create(duplicate) err = %v, want ErrCredentialsTaken", err)
	}

	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "alice")
	name, city, age := "Alice A.", "Lisbon", 30

	err := repo.UpdateProfile(ctx, alice.ID, model.ProfileUpdate{DisplayName: &name, City: &city, Age: &age})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	got, err := repo.GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DisplayName == nil || *got.DisplayName != name {
		t.Errorf("display_name = %v, want %q", got.DisplayName, name)
	}
	if got.Age == nil || *got.Age != age {
		t.Errorf("age = %v, want %d", got.Age, age)
	}
	if got.Bio != nil {
		t.Errorf("bio = %v, want nil", *got.Bio)
	}

	if err := repo.UpdateProfile(ctx, 9999, model.ProfileUpdate{}); !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("UpdateProfile(unknown) err = %v, want ErrUserNotFound", err)
	}
}

// =============================================================================
// Session Repository
// =============================================================================

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	live := &model.Session{ID: "live", UserID: alice.ID, ExpiresAt: time.Now().Add(time.Hour)}
	stale := &model.Session{ID: "stale", UserID: alice.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	for _, s := range []*model.Session{live, stale} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create(%s): %v", s.ID, err)
		}
	}

	got, err := repo.GetByID(ctx, "live")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UserID != alice.ID || got.IsExpired() {
		t.Errorf("unexpected session %+v", got)
	}

	removed, err := repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if removed != 1 {
		t.Errorf("DeleteExpired removed %d, want 1", removed)
	}

	if err := repo.Delete(ctx, "live"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "live"); !errors.Is(err, model.ErrSessionNotFound) {
		t.Errorf("GetByID after delete err = %v, want ErrSessionNotFound", err)
	}
}

// =============================================================================
// Post & Comment Repositories
// =============================================================================

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()
	fixClock(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	alice := createUser(t, users, "alice")
	first, second := "first", "second"
	media := "posts/1_1_cat.png"
	if _, err := posts.Create(ctx, alice.ID, &first, nil); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := posts.Create(ctx, alice.ID, &second, &media); err != nil {
		t.Fatalf("create second: %v", err)
	}

	list, err := posts.ListWithAuthors(ctx)
	if err != nil {
		t.Fatalf("ListWithAuthors: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if *list[0].Content != "second" || *list[1].Content != "first" {
		t.Errorf("order = %q, %q; want second, first", *list[0].Content, *list[1].Content)
	}
	if list[0].Username != "alice" {
		t.Errorf("author = %q, want alice", list[0].Username)
	}
	if list[0].MediaPath == nil || *list[0].MediaPath != media {
		t.Errorf("media_path = %v, want %q", list[0].MediaPath, media)
	}
}

func TestCommentRepository_RequiresExistingPost(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()
	fixClock(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	alice := createUser(t, users, "alice")
	content := "hello"
	post, err := posts.Create(ctx, alice.ID, &content, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, err := comments.Create(ctx, 9999, alice.ID, "orphan"); !errors.Is(err, model.ErrPostNotFound) {
		t.Fatalf("Create(unknown post) err = %v, want ErrPostNotFound", err)
	}

	for _, text := range []string{"one", "two"} {
		if _, err := comments.Create(ctx, post.ID, alice.ID, text); err != nil {
			t.Fatalf("create comment %s: %v", text, err)
		}
	}

	list, err := comments.ListWithAuthors(ctx)
	if err != nil {
		t.Fatalf("ListWithAuthors: %v", err)
	}
	if len(list) != 2 || list[0].Content != "one" || list[1].Content != "two" {
		t.Fatalf("comments = %+v, want one, two", list)
	}
}

// =============================================================================
// Score Repository
// =============================================================================

func TestScoreRepository_BestByUser(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	scores := NewScoreRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	plays := []struct {
		game  string
		score int64
		at    time.Time
	}{
		{"tetris", 10, base},
		{"tetris", 50, base.Add(time.Minute)},
		{"pacman", 5, base.Add(2 * time.Minute)},
		{"tetris", 20, base.Add(3 * time.Minute)},
	}
	for _, p := range plays {
		fixClock(t, p.at)
		if _, err := scores.Create(ctx, alice.ID, p.game, p.score); err != nil {
			t.Fatalf("create score: %v", err)
		}
	}

	best, err := scores.BestByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("BestByUser: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("len = %d, want 2", len(best))
	}

	got := map[string]model.BestScore{}
	for _, b := range best {
		got[b.Game] = b
	}
	if got["tetris"].BestScore != 50 {
		t.Errorf("tetris best = %d, want 50", got["tetris"].BestScore)
	}
	if got["pacman"].BestScore != 5 {
		t.Errorf("pacman best = %d, want 5", got["pacman"].BestScore)
	}
	// lastPlayed is the latest tetris play, not the one that scored 50.
	if !got["tetris"].LastPlayed.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("tetris lastPlayed = %v, want %v", got["tetris"].LastPlayed, base.Add(3*time.Minute))
	}

	var rows int
	if err := db.GetContext(ctx, &rows, `SELECT COUNT(*) FROM scores`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 4 {
		t.Errorf("score rows = %d, want every submission kept (4)", rows)
	}
}

func TestScoreRepository_LeaderboardOrderingAndLimit(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	scores := NewScoreRepository(db)
	ctx := context.Background()
	fixClock(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	carol := createUser(t, users, "carol")
	dave := createUser(t, users, "dave")

	submit := func(u *model.User, game string, score int64) {
		t.Helper()
		if _, err := scores.Create(ctx, u.ID, game, score); err != nil {
			t.Fatalf("create score: %v", err)
		}
	}

	submit(bob, "tetris", 70)   // bob reaches 70 first
	submit(alice, "tetris", 30)
	submit(alice, "tetris", 70) // alice ties later
	submit(carol, "tetris", 90)
	submit(dave, "tetris", 10)
	submit(dave, "pacman", 1000) // other game must not leak in

	board, err := scores.Leaderboard(ctx, "tetris", 3)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}

	want := []struct {
		name  string
		score int64
	}{{"carol", 90}, {"bob", 70}, {"alice", 70}}
	if len(board) != len(want) {
		t.Fatalf("len = %d, want %d", len(board), len(want))
	}
	for i, w := range want {
		if board[i].Username != w.name || board[i].Score != w.score {
			t.Errorf("rank %d = %s/%d, want %s/%d", i+1, board[i].Username, board[i].Score, w.name, w.score)
		}
	}

	// The excluded user (dave) must not beat anyone returned.
	for _, e := range board {
		if e.Score < 10 {
			t.Errorf("returned score %d below excluded best 10", e.Score)
		}
	}
}

// =============================================================================
// Chat Repository
// =============================================================================

func TestChatRepository_OrderedLog(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	chats := NewChatRepository(db)
	ctx := context.Background()
	fixClock(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	if _, err := chats.Append(ctx, alice.ID, model.RoleUser, "hi"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := chats.Append(ctx, alice.ID, model.RoleAI, "hello"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := chats.Append(ctx, bob.ID, model.RoleUser, "not alice"); err != nil {
		t.Fatalf("append: %v", err)
	}

	log, err := chats.ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("len = %d, want 2", len(log))
	}
	if log[0].Role != model.RoleUser || log[0].Content != "hi" || log[1].Role != model.RoleAI {
		t.Errorf("unexpected log %+v", log)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []string{
		"2024-05-01 12:00:00",
		"2024-05-01 12:00:00.5+00:00",
		"2024-05-01T12:00:00Z",
	}
	for _, c := range cases {
		if _, err := parseTimestamp(c); err != nil {
			t.Errorf("parseTimestamp(%q) error: %v", c, err)
		}
	}
	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("expected error for garbage timestamp")
	}
}
