package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/worldpin/geodrop/internal/geo"
	"github.com/worldpin/geodrop/internal/geodrop"
)

// Service orchestrates the game lifecycle against an injected Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// NewGame is the composed result of starting a game: the game row plus its
// three unanswered turns.
type NewGame struct {
	Game  geodrop.Game
	Turns []geodrop.Turn
	// Questions holds the sampled question for each turn, index-aligned with
	// Turns, so callers can hand coordinates to the client without a second
	// read.
	Questions []geodrop.Question
}

// TurnResult is what a submitted answer earned.
type TurnResult struct {
	Score      int
	DistanceKm int
}

// sampleQuestions picks n distinct questions uniformly without replacement.
// Shuffle a copy and take the head; selection order becomes turn order.
func sampleQuestions(pool []geodrop.Question, n int) ([]geodrop.Question, error) {
	if len(pool) < n {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientQuestions, len(pool), n)
	}
	shuffled := make([]geodrop.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n], nil
}

// StartGame samples three distinct questions and creates the game with its
// three empty turns in one transaction.
func (s *Service) StartGame(ctx context.Context, userID int64) (NewGame, error) {
	pool, err := s.store.Questions(ctx)
	if err != nil {
		return NewGame{}, fmt.Errorf("loading question pool: %w", err)
	}

	selected, err := sampleQuestions(pool, geodrop.TurnsPerGame)
	if err != nil {
		return NewGame{}, err
	}

	g, turns, err := s.store.CreateGame(ctx, userID, selected)
	if err != nil {
		return NewGame{}, fmt.Errorf("creating game: %w", err)
	}

	return NewGame{Game: g, Turns: turns, Questions: selected}, nil
}

// SubmitAnswer scores a guess against the turn's question and writes the
// score onto the turn. Resubmitting an already-answered turn overwrites the
// previous score; the client may retry the same request safely.
func (s *Service) SubmitAnswer(ctx context.Context, turnID int64, questionLat, questionLon, answerLat, answerLon float64) (TurnResult, error) {
	distance := geo.DistanceKm(questionLat, questionLon, answerLat, answerLon)
	score := geo.TurnScore(distance)

	if err := s.store.UpdateTurnScore(ctx, turnID, score); err != nil {
		return TurnResult{}, err
	}
	return TurnResult{Score: score, DistanceKm: distance}, nil
}

func (s *Service) GamesForUser(ctx context.Context, userID int64) ([]geodrop.Game, error) {
	return s.store.GamesByUser(ctx, userID)
}

func (s *Service) TotalScoreForUser(ctx context.Context, userID int64) (int, error) {
	return s.store.TotalScore(ctx, userID)
}

// Leaderboard returns each user's best per-game total, highest first. Users
// whose every game sums to zero or less are excluded. Ties order by user id
// so the output is deterministic.
func (s *Service) Leaderboard(ctx context.Context) ([]geodrop.LeaderboardEntry, error) {
	totals, err := s.store.GameTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading game totals: %w", err)
	}

	best := make(map[int64]geodrop.LeaderboardEntry)
	for _, gt := range totals {
		if e, ok := best[gt.UserID]; !ok || gt.Total > e.BestScore {
			best[gt.UserID] = geodrop.LeaderboardEntry{
				UserID:    gt.UserID,
				Username:  gt.Username,
				BestScore: gt.Total,
			}
		}
	}

	entries := make([]geodrop.LeaderboardEntry, 0, len(best))
	for _, e := range best {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].BestScore != entries[j].BestScore {
			return entries[i].BestScore > entries[j].BestScore
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries, nil
}
