package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuizAttempt is one quiz history entry as returned by the backend
type QuizAttempt struct {
	ID          string          `json:"_id"`
	QuizName    string          `json:"quizName"`
	Won         bool            `json:"won"`
	WinCoins    decimal.Decimal `json:"winCoins"`
	Prize       decimal.Decimal `json:"prize"`
	AttemptedAt time.Time       `json:"attemptedAt"`
}

// Transaction is the display projection derived from a quiz attempt
type Transaction struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"` // quiz_win, quiz_loss
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	QuizName  string          `json:"quiz_name"`
	Won       bool            `json:"won"`
}
