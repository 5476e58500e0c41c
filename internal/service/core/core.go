package core

import (
	"context"
	"fmt"
	"math"
	"time"

	calc "distr-calc/internal/calculator/core"
	errs "distr-calc/internal/calculator/errors"
	utils "distr-calc/internal/calculator/utils"
	types "distr-calc/internal/service/types"
	"distr-calc/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Calculator evaluates expressions and records every attempt in a
// history store.
type Calculator struct {
	store storage.Store
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

func NewCalculator(store storage.Store, log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Calculator{
		store: store,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Calculate evaluates input and stores the outcome. The record is returned
// for failed evaluations too; the error then carries the evaluation error
// kind. A storage failure is returned wrapped.
func (c *Calculator) Calculate(ctx context.Context, input string) (types.Record, error) {
	rec := types.Record{
		ID:         c.newID(),
		Expression: input,
		CreatedAt:  c.now().UTC(),
	}

	value, evalErr := calc.EvaluateExpression(input)
	if evalErr != nil {
		rec.Status = types.StatusError
		rec.Error = errs.Message(evalErr)
		rec.Kind = errs.KindOf(evalErr).String()
		c.log.Info("expression rejected",
			zap.String("id", rec.ID),
			zap.String("expression", input),
			zap.Error(evalErr),
		)
	} else {
		rec.Status = types.StatusDone
		rec.Display = utils.FormatResult(value)
		if !math.IsInf(value, 0) && !math.IsNaN(value) {
			rec.Result = &value
		}
		c.log.Info("expression evaluated",
			zap.String("id", rec.ID),
			zap.String("expression", input),
			zap.String("result", rec.Display),
		)
	}

	if err := c.store.Save(ctx, rec); err != nil {
		c.log.Error("failed to save record", zap.String("id", rec.ID), zap.Error(err))
		return rec, fmt.Errorf("save record %s: %w", rec.ID, err)
	}
	return rec, evalErr
}

func (c *Calculator) Get(ctx context.Context, id string) (types.Record, error) {
	return c.store.Get(ctx, id)
}

func (c *Calculator) List(ctx context.Context) ([]types.Record, error) {
	return c.store.List(ctx)
}

func (c *Calculator) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	c.log.Info("history cleared")
	return nil
}
