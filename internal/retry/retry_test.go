package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 5}, func(error) bool { return true }, func(context.Context) error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	retries := 0
	cfg := Config{
		MaxRetries: 5,
		OnRetry:    func(int, error) { retries++ },
	}
	err := Do(context.Background(), cfg, func(error) bool { return true }, func(context.Context) error {
		calls++
		if calls <= 3 {
			return errTransient
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 3, retries)
}

func TestDo_ExhaustsBudget(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 5}, func(error) bool { return true }, func(context.Context) error {
		calls++
		return errTransient
	})
	assert.Equal(t, 6, calls)

	var budgetErr *BudgetError
	assert.ErrorAs(t, err, &budgetErr)
	assert.Equal(t, 5, budgetErr.Retries)
	assert.ErrorIs(t, err, errTransient)
}

func TestDo_NonRetriableStopsImmediately(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 5}, func(err error) bool { return !errors.Is(err, permanent) }, func(context.Context) error {
		calls++
		return permanent
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, permanent)
}

func TestDo_NilClassifierNeverRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxRetries: 5}, nil, func(context.Context) error {
		calls++
		return errTransient
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, errTransient)
}
