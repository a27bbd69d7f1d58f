package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/worldpin/geodrop/internal/geodrop"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) scanUser(row *sql.Row) (geodrop.User, error) {
	var u geodrop.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	if err != nil {
		return u, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return u, nil
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (geodrop.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, user_name, email, password_hash, created_at
		FROM users
		WHERE LOWER(email) = LOWER(?)
	`, email))
}

func (s *SQLiteStore) UserByUsername(ctx context.Context, username string) (geodrop.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, user_name, email, password_hash, created_at
		FROM users
		WHERE user_name = ?
	`, username))
}

func (s *SQLiteStore) UserByID(ctx context.Context, id int64) (geodrop.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, user_name, email, password_hash, created_at
		FROM users
		WHERE id = ?
	`, id))
}

func (s *SQLiteStore) CreateUser(ctx context.Context, username, email, passwordHash string) (geodrop.User, error) {
	var u geodrop.User
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (user_name, email, password_hash)
		VALUES (?, ?, ?)
		RETURNING id, user_name, email, password_hash, created_at
	`, username, email, passwordHash).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt)
	if err != nil {
		return u, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return u, nil
}

func (s *SQLiteStore) Questions(ctx context.Context) ([]geodrop.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, latitude, longitude FROM questions
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []geodrop.Question
	for rows.Next() {
		var q geodrop.Question
		if err := rows.Scan(&q.ID, &q.Latitude, &q.Longitude); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) CreateGame(ctx context.Context, userID int64, questions []geodrop.Question) (geodrop.Game, []geodrop.Turn, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return geodrop.Game{}, nil, err
	}
	defer tx.Rollback()

	var g geodrop.Game
	var startTime string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO games (user_id)
		VALUES (?)
		RETURNING id, user_id, start_time
	`, userID).Scan(&g.ID, &g.UserID, &startTime)
	if err != nil {
		return geodrop.Game{}, nil, fmt.Errorf("inserting game: %w", err)
	}
	g.StartTime, _ = time.Parse(time.RFC3339Nano, startTime)

	turns := make([]geodrop.Turn, 0, len(questions))
	for i, q := range questions {
		var t geodrop.Turn
		err = tx.QueryRowContext(ctx, `
			INSERT INTO turns (user_id, game_id, question_id, turn_number, score)
			VALUES (?, ?, ?, ?, NULL)
			RETURNING id, user_id, game_id, question_id, turn_number
		`, userID, g.ID, q.ID, i+1).Scan(&t.ID, &t.UserID, &t.GameID, &t.QuestionID, &t.TurnNumber)
		if err != nil {
			return geodrop.Game{}, nil, fmt.Errorf("inserting turn %d: %w", i+1, err)
		}
		turns = append(turns, t)
	}

	if err := tx.Commit(); err != nil {
		return geodrop.Game{}, nil, err
	}
	return g, turns, nil
}

func (s *SQLiteStore) GamesByUser(ctx context.Context, userID int64) ([]geodrop.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, start_time FROM games WHERE user_id = ? ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []geodrop.Game
	for rows.Next() {
		var g geodrop.Game
		var startTime string
		if err := rows.Scan(&g.ID, &g.UserID, &startTime); err != nil {
			return nil, err
		}
		g.StartTime, _ = time.Parse(time.RFC3339Nano, startTime)
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *SQLiteStore) UpdateTurnScore(ctx context.Context, turnID int64, score int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE turns SET score = ? WHERE id = ?
	`, score, turnID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) TotalScore(ctx context.Context, userID int64) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(score), 0) FROM turns WHERE user_id = ?
	`, userID).Scan(&total)
	return total, err
}

func (s *SQLiteStore) GameTotals(ctx context.Context) ([]gameTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.user_id, u.user_name, SUM(t.score)
		FROM turns t
		JOIN users u ON u.id = t.user_id
		GROUP BY t.game_id, t.user_id
		HAVING SUM(t.score) > 0
		ORDER BY t.user_id, SUM(t.score) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []gameTotal
	for rows.Next() {
		var gt gameTotal
		if err := rows.Scan(&gt.UserID, &gt.Username, &gt.Total); err != nil {
			return nil, err
		}
		totals = append(totals, gt)
	}
	return totals, rows.Err()
}
