package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"seefinish-platform/models"
)

func TestCreateDebateGates(t *testing.T) {
	svc := NewDebateService(nil, nil)
	viewer := &models.Viewer{UserID: "u1", Username: "one"}

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := svc.Create(nil, CreateDebateInput{Title: "x", DebateType: models.DebateTypeFreestyle})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := svc.Create(viewer, CreateDebateInput{Title: "  ", DebateType: models.DebateTypeFreestyle})
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("unknown debate type", func(t *testing.T) {
		_, err := svc.Create(viewer, CreateDebateInput{Title: "x", DebateType: "shouting-match"})
		assert.ErrorIs(t, err, ErrInvalidDebate)
	})

	t.Run("negative entry fee", func(t *testing.T) {
		fee := decimal.NewFromInt(-100)
		_, err := svc.Create(viewer, CreateDebateInput{
			Title:       "x",
			DebateType:  models.DebateTypeFreestyle,
			EntryFeeNGN: &fee,
		})
		assert.ErrorIs(t, err, ErrInvalidAmounts)
	})

	t.Run("bad scheduled_at timestamp", func(t *testing.T) {
		at := "next tuesday"
		_, err := svc.Create(viewer, CreateDebateInput{
			Title:       "x",
			DebateType:  models.DebateTypeFreestyle,
			ScheduledAt: &at,
		})
		assert.Error(t, err)
	})
}

func TestJoinDebateGates(t *testing.T) {
	svc := NewDebateService(nil, nil)
	viewer := &models.Viewer{UserID: "u1", Username: "one"}

	_, err := svc.Join(nil, "d1", CurrencyNGN, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Join(viewer, "d1", "eur", "")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestIsValidDebateType(t *testing.T) {
	for _, valid := range []string{"freestyle", "structured", "timed", "formal"} {
		assert.True(t, models.IsValidDebateType(valid), valid)
	}
	assert.False(t, models.IsValidDebateType("rap-battle"))
	assert.False(t, models.IsValidDebateType(""))
}
