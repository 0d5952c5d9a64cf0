package ids

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// codeAlphabet omits easily-confused characters (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Generator produces player/round ids and table codes. Injectable so tests
// can supply deterministic values.
type Generator interface {
	NewID(prefix string) string
	NewCode(length int) string
}

type ulidGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	rnd     *rand.Rand
}

// NewGenerator returns the production Generator, seeded from the clock.
func NewGenerator() Generator {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &ulidGenerator{
		entropy: ulid.Monotonic(src, 0),
		rnd:     src,
	}
}

func (g *ulidGenerator) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
	if prefix == "" {
		return id
	}
	return prefix + "_" + strings.ToLower(id)
}

func (g *ulidGenerator) NewCode(length int) string {
	if length <= 0 {
		length = 4
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(codeAlphabet[g.rnd.Intn(len(codeAlphabet))])
	}
	return b.String()
}
