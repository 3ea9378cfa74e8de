package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/models"
)

// History filters
const (
	FilterAll    = "all"
	FilterWins   = "quiz_win"
	FilterLosses = "quiz_loss"
)

// HistorySummary is the derived win/loss totals for the history page
type HistorySummary struct {
	WinAmount  decimal.Decimal `json:"win_amount"`
	LossAmount decimal.Decimal `json:"loss_amount"`
}

// HistoryService renders quiz attempts as a filtered, sorted transaction list
type HistoryService interface {
	Transactions(ctx context.Context, filter string) ([]models.Transaction, *HistorySummary, error)
}

type historyService struct {
	backendClient *backend.Client
}

// NewHistoryService creates a new history service
func NewHistoryService(backendClient *backend.Client) HistoryService {
	return &historyService{backendClient: backendClient}
}

// Transactions fetches the quiz history and derives the display list.
// Totals always cover the full history regardless of the filter.
func (s *historyService) Transactions(ctx context.Context, filter string) ([]models.Transaction, *HistorySummary, error) {
	history, err := s.backendClient.QuizHistory(ctx)
	if err != nil {
		return nil, nil, err
	}

	summary := Summarize(history)
	transactions := TransformHistory(history, filter)
	return transactions, summary, nil
}

// Summarize totals win coins and lost prizes across the whole history
func Summarize(history []models.QuizAttempt) *HistorySummary {
	summary := &HistorySummary{
		WinAmount:  decimal.Zero,
		LossAmount: decimal.Zero,
	}
	for _, attempt := range history {
		if attempt.Won {
			summary.WinAmount = summary.WinAmount.Add(attempt.WinCoins)
		} else {
			summary.LossAmount = summary.LossAmount.Add(attempt.Prize)
		}
	}
	return summary
}

// TransformHistory filters, projects and sorts attempts newest first.
// Entries without an id are dropped.
func TransformHistory(history []models.QuizAttempt, filter string) []models.Transaction {
	transactions := make([]models.Transaction, 0, len(history))

	for _, attempt := range history {
		if attempt.ID == "" {
			continue
		}
		if filter == FilterWins && !attempt.Won {
			continue
		}
		if filter == FilterLosses && attempt.Won {
			continue
		}

		tx := models.Transaction{
			ID:        attempt.ID,
			Status:    "completed",
			CreatedAt: attempt.AttemptedAt,
			QuizName:  attempt.QuizName,
			Won:       attempt.Won,
		}
		if attempt.QuizName == "" {
			tx.QuizName = "Quiz"
		}
		if attempt.Won {
			tx.Type = FilterWins
			tx.Amount = attempt.WinCoins
		} else {
			tx.Type = FilterLosses
			tx.Amount = attempt.Prize
		}
		transactions = append(transactions, tx)
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})

	return transactions
}
