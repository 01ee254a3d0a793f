package ppmac_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/jgbyrne/ppmac"
)

func roundTrip(t *testing.T, cfg ppmac.Config, data []byte) []byte {
	t.Helper()
	out, err := ppmac.Encode(cfg, data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := ppmac.Decode(cfg, out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(data))
	}
	return out
}

func TestRoundTrip_Classes(t *testing.T) {
	cfg := ppmac.DefaultConfig()

	cases := map[string][]byte{
		"empty":        {},
		"single byte":  {0x42},
		"all equal":    bytes.Repeat([]byte{0x37}, 4096),
		"all distinct": allDistinctBytes(),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			roundTrip(t, cfg, data)
		})
	}
}

func TestRoundTrip_RandomMegabyte(t *testing.T) {
	cfg := ppmac.DefaultConfig()
	rnd := rand.New(rand.NewSource(1))
	data := make([]byte, 1<<20)
	rnd.Read(data)
	roundTrip(t, cfg, data)
}

func TestRoundTrip_RepetitiveMegabyte(t *testing.T) {
	cfg := ppmac.DefaultConfig()
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), (1<<20)/45+1)
	data = data[:1<<20]
	roundTrip(t, cfg, data)
}

func allDistinctBytes() []byte {
	out := make([]byte, 256)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

// Scenario A: K=5, N=27, W=24, uniform order-(-1). Letters of the
// poem line mapped to [0,25], EOF=cfg.EOF()=27.
func TestScenarioA_LetterAlphabet(t *testing.T) {
	cfg := ppmac.Config{K: 5, N: 27, W: 24}
	line := "lookuponmyworksyemightyanddespair"

	m, err := ppmac.NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	enc, err := ppmac.NewEncoder(cfg, m)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	var symbols []int32
	for _, r := range line {
		sym := int32(r - 'a')
		symbols = append(symbols, sym)
		if err := enc.Encode(sym); err != nil {
			t.Fatalf("Encode(%d): %v", sym, err)
		}
	}
	if err := enc.Encode(cfg.EOF()); err != nil {
		t.Fatalf("Encode(EOF): %v", err)
	}
	out := enc.Conclude()

	dm, err := ppmac.NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	dec, err := ppmac.NewDecoder(cfg, dm, out)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	var got []int32
	for {
		sym, err := dec.Decode()
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if sym == cfg.EOF() {
			break
		}
		got = append(got, sym)
	}
	if len(got) != len(symbols) {
		t.Fatalf("decoded %d symbols, want %d", len(got), len(symbols))
	}
	for i := range symbols {
		if got[i] != symbols[i] {
			t.Errorf("symbol %d: got %d, want %d", i, got[i], symbols[i])
		}
	}
}

// Scenario B: empty stream, no seeding; output is tiny and decode
// returns EOF immediately.
func TestScenarioB_EmptyStream(t *testing.T) {
	cfg := ppmac.DefaultConfig()
	out := roundTrip(t, cfg, nil)
	if len(out) > 8 {
		t.Errorf("output length = %d, want <= 8", len(out))
	}
}

// Scenario C: K=4, N=256, W=32, ASCII English text; compressed size
// must beat the 0.6 ratio bound once context statistics warm up.
func TestScenarioC_SeededEnglishText(t *testing.T) {
	cfg := ppmac.Config{K: 4, N: 256, W: 32}
	text := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog and then runs away again and again, "), 52)
	text = text[:4096]

	m, err := ppmac.NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	var hist [256]uint32
	for _, b := range text {
		hist[b]++
	}
	for sym, count := range hist {
		if count > 0 {
			m.Seed(int32(sym), count)
		}
	}

	enc, err := ppmac.NewEncoder(cfg, m)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	for _, b := range text {
		if err := enc.Encode(int32(b)); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
	if err := enc.Encode(cfg.EOF()); err != nil {
		t.Fatalf("Encode(EOF): %v", err)
	}
	out := enc.Conclude()

	if len(out) >= len(text)*6/10 {
		t.Errorf("compressed size %d, want < %d (0.6x)", len(out), len(text)*6/10)
	}

	dm, err := ppmac.NewModel(cfg)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	for sym, count := range hist {
		if count > 0 {
			dm.Seed(int32(sym), count)
		}
	}
	dec, err := ppmac.NewDecoder(cfg, dm, out)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	var got []byte
	for {
		sym, err := dec.Decode()
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if sym == cfg.EOF() {
			break
		}
		got = append(got, byte(sym))
	}
	if !bytes.Equal(got, text) {
		t.Fatal("seeded round trip mismatch")
	}
}

// Scenario D: K=5, N=66, alphabet-shrink harness; arbitrary bytes
// spanning the full 0..255 range.
func TestScenarioD_ShrinkAlphabet(t *testing.T) {
	data := make([]byte, 2000)
	rnd := rand.New(rand.NewSource(7))
	rnd.Read(data)
	// Force all four quadrants to appear.
	data[0], data[1], data[2], data[3] = 0x00, 0x7f, 0x80, 0xff

	out, err := ppmac.EncodeShrink(data)
	if err != nil {
		t.Fatalf("EncodeShrink: %v", err)
	}
	got, err := ppmac.DecodeShrink(out)
	if err != nil {
		t.Fatalf("DecodeShrink: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("shrink round trip mismatch")
	}
}

// Scenario E: single input byte.
func TestScenarioE_SingleByte(t *testing.T) {
	cfg := ppmac.DefaultConfig()
	roundTrip(t, cfg, []byte{0xAA})
}

// Scenario F: 1 MiB of uniform-random bytes; output should be close
// to incompressible.
func TestScenarioF_IncompressibleMegabyte(t *testing.T) {
	cfg := ppmac.DefaultConfig()
	rnd := rand.New(rand.NewSource(99))
	data := make([]byte, 1<<20)
	rnd.Read(data)
	out := roundTrip(t, cfg, data)
	// Random bytes should not compress meaningfully; allow generous
	// slack for coder and escape-cascade overhead either direction.
	if len(out) < len(data)*80/100 || len(out) > len(data)*125/100 {
		t.Errorf("output size %d far from incompressible baseline %d", len(out), len(data))
	}
}

func TestEOF_StopsImmediatelyAndIsUnique(t *testing.T) {
	cfg := ppmac.DefaultConfig()
	m, _ := ppmac.NewModel(cfg)
	enc, _ := ppmac.NewEncoder(cfg, m)
	for _, b := range []byte("abc") {
		if err := enc.Encode(int32(b)); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
	if err := enc.Encode(cfg.EOF()); err != nil {
		t.Fatalf("Encode(EOF): %v", err)
	}
	out := enc.Conclude()

	dm, _ := ppmac.NewModel(cfg)
	dec, err := ppmac.NewDecoder(cfg, dm, out)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	var got []byte
	for {
		sym, err := dec.Decode()
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if sym == cfg.EOF() {
			break
		}
		got = append(got, byte(sym))
	}
	if !bytes.Equal(got, []byte("abc")) {
		t.Fatalf("got %q, want %q", got, "abc")
	}
}

func TestConfig_ValidateRejectsBadParams(t *testing.T) {
	cases := []ppmac.Config{
		{K: -1, N: 10, W: 24},
		{K: 4, N: 0, W: 24},
		{K: 4, N: 10, W: 1},
		{K: 4, N: 10, W: 63},
	}
	for _, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", cfg)
		}
	}
}
