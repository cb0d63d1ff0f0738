// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitmate/splitmate/internal/models"
)

// ErrNotFound indicates that a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrSharesMismatch indicates that an expense's shares do not sum to its
// total amount. Storage rejects such expenses at create/edit time so the
// balance calculator never has to.
var ErrSharesMismatch = errors.New("participant shares do not sum to expense amount")

// Store defines the interface for group, expense and payment persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the handler layer.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// Groups
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, groupID string) error
	AddGroupMembers(ctx context.Context, groupID string, memberIDs []string) error

	// Expenses
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// Payments
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)

	// Exchange rates
	CreateExchangeRate(ctx context.Context, rate *models.ExchangeRate) error
	ListExchangeRates(ctx context.Context) ([]*models.ExchangeRate, error)
	// LatestRate returns the most recent rate for the pair effective on or
	// before date. Returns ErrNotFound when no such rate exists.
	LatestRate(ctx context.Context, from, to string, date int64) (*models.ExchangeRate, error)

	// Close releases any resources held by the store.
	Close() error
}
