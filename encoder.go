package ppmac

import (
	"fmt"

	"github.com/jgbyrne/ppmac/internal/arith"
	"github.com/jgbyrne/ppmac/internal/model"
)

// Encoder drives the PPM order cascade and the arithmetic coder in
// lockstep. An Encoder owns its Config, Model, coder state and history
// window; it is not safe for concurrent use and is single-use: once
// Conclude has been called it must be discarded.
type Encoder struct {
	cfg     Config
	model   *model.Model
	coder   *arith.Encoder
	history []model.Symbol
	idx     int
	done    bool
}

// NewEncoder creates an encoder over model for cfg. model may already
// contain seeded counts (see Model.Seed) but must not yet have encoded
// or decoded any symbols.
func NewEncoder(cfg Config, m *Model) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := cfg.arithParams()
	if err != nil {
		return nil, err
	}
	return &Encoder{
		cfg:     cfg,
		model:   m.inner,
		coder:   arith.NewEncoder(params),
		history: make([]model.Symbol, 0, cfg.K),
	}, nil
}

// Encode narrows the coder's interval for sym and updates the model.
// sym must be in [0, N] (EOF included); ESC (N+1) is internal to the
// escape cascade and must never be passed here.
func (e *Encoder) Encode(sym int32) error {
	if e.done {
		return fmt.Errorf("ppmac: Encode called after Conclude")
	}
	s := model.Symbol(sym)
	top := len(e.history)
	if top > e.cfg.K {
		top = e.cfg.K
	}

	exclude := model.NewExclude()
	matched := false
	for order := top; order >= -1; order-- {
		ctx := model.SubContext(e.history, order)

		trial := exclude.Clone()
		if frac, ok := e.model.Interval(order, ctx, s, trial); ok {
			if err := e.narrow(frac, e.idx); err != nil {
				return err
			}
			matched = true
			break
		}

		escFrac, ok := e.model.Interval(order, ctx, e.model.ESC(), exclude)
		if !ok {
			// ESC must always be present; this can only happen if the
			// model and coder have desynchronized.
			return fmt.Errorf("%w: ESC missing at order %d, symbol index %d", ErrInvariantViolation, order, e.idx)
		}
		if err := e.narrow(escFrac, e.idx); err != nil {
			return err
		}
		e.model.Record(order, ctx, e.model.ESC())
		exclude = trial
	}
	if !matched {
		return fmt.Errorf("%w: order -1 failed to match symbol %d, index %d", ErrInvariantViolation, sym, e.idx)
	}

	e.update(top, s)
	e.idx++
	return nil
}

func (e *Encoder) narrow(frac model.Fraction, idx int) error {
	err := e.coder.Encode(arith.Fraction{Left: frac.Left, Right: frac.Right, Total: frac.Total}, idx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	return nil
}

// update performs the §4.3 update policy: record sym at every order
// from 0 through top, then push sym onto the sliding history window.
func (e *Encoder) update(top int, sym model.Symbol) {
	for o := 0; o <= top; o++ {
		e.model.Record(o, model.SubContext(e.history, o), sym)
	}
	e.history = append(e.history, sym)
	if len(e.history) > e.cfg.K {
		e.history = e.history[1:]
	}
}

// Conclude flushes the remaining coder state and returns the
// finalized byte sequence. The encoder must not be used afterward.
func (e *Encoder) Conclude() []byte {
	e.done = true
	return e.coder.Conclude()
}
