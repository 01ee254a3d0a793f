package arith

import "github.com/jgbyrne/ppmac/internal/bitio"

// bitWriter adapts bitio.Writer with the "push n complementary bits"
// helper the E1/E2/E3 renormalization steps and Conclude need for
// flushing the straddle counter.
type bitWriter struct {
	w *bitio.Writer
}

func newBitWriter() *bitWriter {
	return &bitWriter{w: bitio.NewWriter()}
}

func (b *bitWriter) push(v int) {
	b.w.Push(v)
}

func (b *bitWriter) pushPending(v int, n uint64) {
	for i := uint64(0); i < n; i++ {
		b.w.Push(v)
	}
}

func (b *bitWriter) bytes() []byte {
	return b.w.Bytes()
}

// bitReader adapts bitio.Reader for the decoder's single-bit pulls.
type bitReader struct {
	r *bitio.Reader
}

func newBitReader(buf []byte) *bitReader {
	return &bitReader{r: bitio.NewReader(buf)}
}

func (b *bitReader) pop() int {
	return b.r.Pop()
}
