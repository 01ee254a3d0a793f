package ppmac

import (
	"fmt"

	"github.com/jgbyrne/ppmac/internal/arith"
	"github.com/jgbyrne/ppmac/internal/model"
)

// Decoder mirrors Encoder: it replays the identical order cascade and
// model updates, driven by the arithmetic coder's decoded points
// instead of already-known symbols.
type Decoder struct {
	cfg     Config
	model   *model.Model
	coder   *arith.Decoder
	history []model.Symbol
	idx     int
}

// NewDecoder creates a decoder over data for cfg. model must be a
// separate model in the same state the encoder's model was in before
// its first Encode call (fresh, or seeded identically); the encoder's
// own model, already updated by encoding, does not decode its output.
// model must not yet have encoded or decoded any symbols.
func NewDecoder(cfg Config, m *Model, data []byte) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := cfg.arithParams()
	if err != nil {
		return nil, err
	}
	return &Decoder{
		cfg:     cfg,
		model:   m.inner,
		coder:   arith.NewDecoder(params, data),
		history: make([]model.Symbol, 0, cfg.K),
	}, nil
}

// Decode produces the next symbol. Callers should stop calling Decode
// once the returned symbol equals Config.EOF(); further calls are
// tolerated (the underlying bit source reads implicit trailing zeros)
// but not meaningful.
func (d *Decoder) Decode() (int32, error) {
	top := len(d.history)
	if top > d.cfg.K {
		top = d.cfg.K
	}

	exclude := model.NewExclude()
	var result model.Symbol
	matched := false
	for order := top; order >= -1; order-- {
		ctx := model.SubContext(d.history, order)

		trial := exclude.Clone()
		total := d.model.Total(order, ctx, trial.Clone())
		point := d.coder.Point(total)

		sym, frac, ok := d.model.Query(order, ctx, point, trial)
		if !ok {
			return 0, fmt.Errorf("%w: no symbol found at order %d, index %d", ErrInvariantViolation, order, d.idx)
		}
		if err := d.narrow(frac, d.idx); err != nil {
			return 0, err
		}

		if sym != d.model.ESC() {
			result = sym
			matched = true
			break
		}
		d.model.Record(order, ctx, d.model.ESC())
		exclude = trial
	}
	if !matched {
		return 0, fmt.Errorf("%w: order -1 failed to resolve a symbol, index %d", ErrInvariantViolation, d.idx)
	}

	d.update(top, result)
	d.idx++
	return int32(result), nil
}

func (d *Decoder) narrow(frac model.Fraction, idx int) error {
	err := d.coder.Narrow(arith.Fraction{Left: frac.Left, Right: frac.Right, Total: frac.Total}, idx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	return nil
}

// update mirrors Encoder.update exactly: record the decoded symbol at
// every order from 0 through top, then slide it into history.
func (d *Decoder) update(top int, sym model.Symbol) {
	for o := 0; o <= top; o++ {
		d.model.Record(o, model.SubContext(d.history, o), sym)
	}
	d.history = append(d.history, sym)
	if len(d.history) > d.cfg.K {
		d.history = d.history[1:]
	}
}
