// Package ppmac implements a lossless entropy codec for arbitrary byte
// streams, combining an adaptive PPM (Prediction by Partial Matching)
// context model with an integer-range arithmetic coder.
//
// The codec takes a sequence of alphabet symbols, produces a compact
// bit sequence from which the exact original sequence can be
// recovered, and terminates the stream with a distinguished
// end-of-stream symbol. It is not bit-compatible with any external
// standard (PPMd, PPMII, ...); it is a self-contained format.
//
// Basic usage for encoding a byte slice:
//
//	cfg := ppmac.DefaultConfig()
//	m, _ := ppmac.NewModel(cfg)
//	enc, _ := ppmac.NewEncoder(cfg, m)
//	for _, b := range data {
//	    enc.Encode(int32(b))
//	}
//	enc.Encode(cfg.EOF())
//	out := enc.Conclude()
//
// Basic usage for decoding, with a fresh model seeded the same way:
//
//	dm, _ := ppmac.NewModel(cfg)
//	dec, _ := ppmac.NewDecoder(cfg, dm, out)
//	var result []byte
//	for {
//	    sym, err := dec.Decode()
//	    if err != nil { ... }
//	    if sym == cfg.EOF() { break }
//	    result = append(result, byte(sym))
//	}
package ppmac

import (
	"fmt"

	"github.com/jgbyrne/ppmac/internal/arith"
	"github.com/jgbyrne/ppmac/internal/model"
)

// Config holds the immutable codec parameters: K (max context order),
// N (alphabet size excluding EOF/ESC) and W (coder precision in bits).
// A Config is created once per session and never mutated.
type Config struct {
	// K is the maximum PPM context order, typically 4-5.
	K int

	// N is the number of normal alphabet symbols, excluding EOF and
	// ESC. Typically 256 for raw bytes.
	N int32

	// W is the arithmetic coder's precision in bits, typically 24-32.
	// It must be large enough that integer truncation in interval
	// narrowing cannot collapse high < low; W >= 24 is safe for
	// contexts with up to a few hundred symbols.
	W uint
}

// DefaultConfig returns the configuration described in spec scenario
// B/E/F: K=5, N=256 (raw bytes plus EOF/ESC), W=32.
func DefaultConfig() Config {
	return Config{K: 5, N: 256, W: 32}
}

// Validate reports a ConfigurationError-equivalent if the combination
// of K, N and W cannot form a working codec.
func (c Config) Validate() error {
	if c.K < 0 {
		return fmt.Errorf("%w: K=%d must be >= 0", ErrConfiguration, c.K)
	}
	if c.N < 1 {
		return fmt.Errorf("%w: N=%d must be >= 1", ErrConfiguration, c.N)
	}
	if c.W < 2 || c.W > 62 {
		return fmt.Errorf("%w: W=%d must be in [2,62]", ErrConfiguration, c.W)
	}
	return nil
}

// EOF returns the distinguished end-of-stream symbol, N.
func (c Config) EOF() int32 { return c.N }

// ESC returns the distinguished escape symbol, N+1. Callers of the
// public API never need to encode/decode ESC directly; it is internal
// to the PPM driver's escape cascade.
func (c Config) ESC() int32 { return c.N + 1 }

func (c Config) arithParams() (arith.Params, error) {
	return arith.NewParams(c.W)
}

// Model is the adaptive (context -> symbol -> count) table shared by
// an Encoder/Decoder pair. It is not safe for concurrent use, and it
// is not reusable across sessions unless both sides seed it
// identically before the first Encode/Decode call.
type Model struct {
	inner *model.Model
}

// NewModel creates an empty model for cfg.
func NewModel(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	inner, err := model.New(cfg.K, cfg.N)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return &Model{inner: inner}, nil
}

// Seed preloads an order-0 count for sym, giving the coder a warm
// start from e.g. a static counts file. It must be called before any
// symbol is encoded or decoded, and identically on both sides.
func (m *Model) Seed(sym int32, count uint32) {
	m.inner.Seed(model.Symbol(sym), count)
}

// ShrinkConfig returns the configuration for scenario D: the 66-symbol
// shift-coded alphabet (see ShrinkSymbols/ShrinkUnshifter).
func ShrinkConfig() Config {
	return Config{K: 5, N: 66, W: 32}
}

// Encode compresses data under cfg with a fresh, unseeded model and
// returns the finalized byte sequence, mirroring the teacher's
// Encode(w io.Writer, m image.Image, o *Options) entry point.
func Encode(cfg Config, data []byte) ([]byte, error) {
	m, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	enc, err := NewEncoder(cfg, m)
	if err != nil {
		return nil, err
	}
	for i, b := range data {
		if err := enc.Encode(int32(b)); err != nil {
			return nil, fmt.Errorf("ppmac: encoding byte %d: %w", i, err)
		}
	}
	if err := enc.Encode(cfg.EOF()); err != nil {
		return nil, fmt.Errorf("ppmac: encoding EOF: %w", err)
	}
	return enc.Conclude(), nil
}

// Decode reverses Encode: it decodes symbols from data against a
// fresh, unseeded model until EOF and returns the recovered bytes.
func Decode(cfg Config, data []byte) ([]byte, error) {
	m, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	dec, err := NewDecoder(cfg, m, data)
	if err != nil {
		return nil, err
	}
	var out []byte
	for {
		sym, err := dec.Decode()
		if err != nil {
			return nil, fmt.Errorf("ppmac: decoding byte %d: %w", len(out), err)
		}
		if sym == cfg.EOF() {
			return out, nil
		}
		out = append(out, byte(sym))
	}
}

// EncodeShrink compresses data using the 66-symbol shrink alphabet
// (scenario D), folding each byte through ShrinkSymbols before
// encoding.
func EncodeShrink(data []byte) ([]byte, error) {
	cfg := ShrinkConfig()
	m, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	enc, err := NewEncoder(cfg, m)
	if err != nil {
		return nil, err
	}
	var symbols []int32
	for _, b := range data {
		symbols = ShrinkSymbols(symbols, b)
	}
	for _, sym := range symbols {
		if err := enc.Encode(sym); err != nil {
			return nil, fmt.Errorf("ppmac: encoding shrunk symbol: %w", err)
		}
	}
	if err := enc.Encode(cfg.EOF()); err != nil {
		return nil, fmt.Errorf("ppmac: encoding EOF: %w", err)
	}
	return enc.Conclude(), nil
}

// DecodeShrink reverses EncodeShrink.
func DecodeShrink(data []byte) ([]byte, error) {
	cfg := ShrinkConfig()
	m, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	dec, err := NewDecoder(cfg, m, data)
	if err != nil {
		return nil, err
	}
	unshift := NewShrinkUnshifter()
	var out []byte
	for {
		sym, err := dec.Decode()
		if err != nil {
			return nil, fmt.Errorf("ppmac: decoding shrunk byte %d: %w", len(out), err)
		}
		if sym == cfg.EOF() {
			return out, nil
		}
		if b, ok := unshift.Feed(sym); ok {
			out = append(out, b)
		}
	}
}
