package game

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/worldpin/geodrop/internal/database"
	"github.com/worldpin/geodrop/internal/geodrop"
	"github.com/worldpin/geodrop/internal/migrations"
)

// newTestDB opens an in-memory SQLite database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

// resetQuestions replaces the seeded pool with a known set of points.
func resetQuestions(t *testing.T, db *sql.DB, points [][2]float64) {
	t.Helper()
	if _, err := db.Exec("DELETE FROM questions"); err != nil {
		t.Fatalf("clearing questions: %v", err)
	}
	for _, p := range points {
		if _, err := db.Exec(
			"INSERT INTO questions (latitude, longitude) VALUES (?, ?)", p[0], p[1],
		); err != nil {
			t.Fatalf("inserting question: %v", err)
		}
	}
}

func createTestUser(t *testing.T, store *SQLiteStore, username, email string) geodrop.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), username, email, "x")
	if err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return u
}

func TestSampleQuestionsDistinct(t *testing.T) {
	pool := []geodrop.Question{
		{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4},
	}

	// Sampling is random; run enough rounds to catch duplicate selection.
	for i := 0; i < 200; i++ {
		selected, err := sampleQuestions(pool, 3)
		if err != nil {
			t.Fatalf("sampleQuestions: %v", err)
		}
		if len(selected) != 3 {
			t.Fatalf("selected %d questions, want 3", len(selected))
		}
		seen := map[int64]bool{}
		for _, q := range selected {
			if seen[q.ID] {
				t.Fatalf("question %d selected twice", q.ID)
			}
			seen[q.ID] = true
		}
	}
}

func TestSampleQuestionsDoesNotMutatePool(t *testing.T) {
	pool := []geodrop.Question{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	if _, err := sampleQuestions(pool, 3); err != nil {
		t.Fatalf("sampleQuestions: %v", err)
	}
	for i, q := range pool {
		if q.ID != int64(i+1) {
			t.Fatalf("pool mutated: %v", pool)
		}
	}
}

func TestSampleQuestionsPoolTooSmall(t *testing.T) {
	pool := []geodrop.Question{{ID: 1}, {ID: 2}}
	_, err := sampleQuestions(pool, 3)
	if !errors.Is(err, ErrInsufficientQuestions) {
		t.Fatalf("err = %v, want ErrInsufficientQuestions", err)
	}
}

func TestStartGame(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSQLiteStore(db)
	svc := NewService(store)

	resetQuestions(t, db, [][2]float64{{0, 0}, {10, 10}, {20, 20}, {30, 30}})
	user := createTestUser(t, store, "kate", "kate@site.com")

	ng, err := svc.StartGame(ctx, user.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	if len(ng.Turns) != 3 {
		t.Fatalf("got %d turns, want 3", len(ng.Turns))
	}
	seen := map[int64]bool{}
	for i, turn := range ng.Turns {
		if turn.TurnNumber != i+1 {
			t.Errorf("turn %d has number %d, want %d", i, turn.TurnNumber, i+1)
		}
		if turn.GameID != ng.Game.ID {
			t.Errorf("turn %d belongs to game %d, want %d", i, turn.GameID, ng.Game.ID)
		}
		if turn.Score != nil {
			t.Errorf("turn %d has score %d, want unset", i, *turn.Score)
		}
		if seen[turn.QuestionID] {
			t.Errorf("question %d used twice in one game", turn.QuestionID)
		}
		seen[turn.QuestionID] = true
		if ng.Questions[i].ID != turn.QuestionID {
			t.Errorf("turn %d question mismatch: %d vs %d", i, turn.QuestionID, ng.Questions[i].ID)
		}
	}

	// Rows must be persisted.
	var turnCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM turns WHERE game_id = ?", ng.Game.ID).Scan(&turnCount); err != nil {
		t.Fatalf("counting turns: %v", err)
	}
	if turnCount != 3 {
		t.Errorf("persisted %d turns, want 3", turnCount)
	}
}

func TestStartGameEmptyPool(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSQLiteStore(db)
	svc := NewService(store)

	resetQuestions(t, db, [][2]float64{{0, 0}})
	user := createTestUser(t, store, "kate", "kate@site.com")

	_, err := svc.StartGame(ctx, user.ID)
	if !errors.Is(err, ErrInsufficientQuestions) {
		t.Fatalf("err = %v, want ErrInsufficientQuestions", err)
	}

	// No partial game may survive the failure.
	var games int
	if err := db.QueryRow("SELECT COUNT(*) FROM games").Scan(&games); err != nil {
		t.Fatalf("counting games: %v", err)
	}
	if games != 0 {
		t.Errorf("found %d games after failed start, want 0", games)
	}
}

func TestSubmitAnswer(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSQLiteStore(db)
	svc := NewService(store)

	user := createTestUser(t, store, "kate", "kate@site.com")
	ng, err := svc.StartGame(ctx, user.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	turnID := ng.Turns[0].ID

	// Exact hit.
	res, err := svc.SubmitAnswer(ctx, turnID, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if res.DistanceKm != 0 || res.Score != 5000 {
		t.Errorf("exact hit: got score %d distance %d, want 5000 and 0", res.Score, res.DistanceKm)
	}

	// ~20 km off.
	res, err = svc.SubmitAnswer(ctx, turnID, 0, 0, 0, 0.18)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if res.DistanceKm != 20 {
		t.Errorf("distance = %d, want 20", res.DistanceKm)
	}
	if res.Score != 4990 {
		t.Errorf("score = %d, want 4990", res.Score)
	}

	// Resubmission overwrote the stored score.
	var stored int
	if err := db.QueryRow("SELECT score FROM turns WHERE id = ?", turnID).Scan(&stored); err != nil {
		t.Fatalf("reading stored score: %v", err)
	}
	if stored != 4990 {
		t.Errorf("stored score = %d, want 4990", stored)
	}
}

func TestSubmitAnswerUnknownTurn(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewSQLiteStore(db))

	_, err := svc.SubmitAnswer(context.Background(), 9999, 0, 0, 1, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTotalScoreForUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSQLiteStore(db)
	svc := NewService(store)

	user := createTestUser(t, store, "kate", "kate@site.com")
	ng, err := svc.StartGame(ctx, user.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	for _, turn := range ng.Turns[:2] {
		if _, err := svc.SubmitAnswer(ctx, turn.ID, 0, 0, 0, 0); err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
	}

	total, err := svc.TotalScoreForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("TotalScoreForUser: %v", err)
	}
	if total != 10000 {
		t.Errorf("total = %d, want 10000", total)
	}
}

// setTurnScores answers every turn of a fresh game with fixed scores by
// writing them directly, bypassing the distance math.
func setTurnScores(t *testing.T, db *sql.DB, svc *Service, userID int64, scores []int) {
	t.Helper()
	ng, err := svc.StartGame(context.Background(), userID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	for i, sc := range scores {
		if _, err := db.Exec("UPDATE turns SET score = ? WHERE id = ?", sc, ng.Turns[i].ID); err != nil {
			t.Fatalf("setting score: %v", err)
		}
	}
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewSQLiteStore(db)
	svc := NewService(store)

	kate := createTestUser(t, store, "kate", "kate@site.com")
	juan := createTestUser(t, store, "juan", "juan@site.com")
	idle := createTestUser(t, store, "idle", "idle@site.com")

	// Kate: game A sums 5100, game B sums 200 — best is 5100.
	setTurnScores(t, db, svc, kate.ID, []int{100, 5000, 0})
	setTurnScores(t, db, svc, kate.ID, []int{200, 0, 0})
	// Juan: one game summing 300.
	setTurnScores(t, db, svc, juan.ID, []int{300, 0, 0})
	// Idle: a game with all-zero scores must not appear.
	setTurnScores(t, db, svc, idle.ID, []int{0, 0, 0})

	entries, err := svc.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].UserID != kate.ID || entries[0].BestScore != 5100 {
		t.Errorf("first entry = %+v, want kate with 5100", entries[0])
	}
	if entries[0].Username != "kate" {
		t.Errorf("first entry username = %q, want kate", entries[0].Username)
	}
	if entries[1].UserID != juan.ID || entries[1].BestScore != 300 {
		t.Errorf("second entry = %+v, want juan with 300", entries[1])
	}
}

func TestLeaderboardTieBreak(t *testing.T) {
	db := newTestDB(t)
	store := NewSQLiteStore(db)
	svc := NewService(store)

	a := createTestUser(t, store, "a", "a@site.com")
	b := createTestUser(t, store, "b", "b@site.com")

	setTurnScores(t, db, svc, b.ID, []int{500, 0, 0})
	setTurnScores(t, db, svc, a.ID, []int{500, 0, 0})

	entries, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].UserID != a.ID {
		t.Errorf("tie should order by user id: got %+v first", entries[0])
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewSQLiteStore(db))

	entries, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}
