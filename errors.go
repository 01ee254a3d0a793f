package ppmac

import "errors"

// Sentinel errors identifying the error kinds from the codec's design:
// configuration validation, coder/model desynchronization and
// truncated input. Caller misuse of the bit-level API (a bit value
// other than 0 or 1) is a panic in internal/bitio, not an error value.
var (
	// ErrConfiguration reports an invalid (K, N, W) combination.
	ErrConfiguration = errors.New("ppmac: invalid configuration")

	// ErrInvariantViolation reports that interval narrowing collapsed
	// (high <= low) during encode, or that a decode query found no
	// symbol for a valid point. Both indicate either a precision
	// configuration too coarse for the observed statistics, or
	// encoder/decoder model desynchronization; the session cannot be
	// recovered and must be abandoned.
	ErrInvariantViolation = errors.New("ppmac: coder invariant violated")

	// ErrDecodeExhausted reports that the decoder could not reach EOF
	// before its input was exhausted in a way consistent with a valid
	// stream; it signals corrupted or truncated input.
	ErrDecodeExhausted = errors.New("ppmac: decode exhausted without reaching EOF")
)
