package decline

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// Synthetic series shape
const (
	SyntheticDays       = 14
	SyntheticEngagement = 2000
	SyntheticPosts      = 400
	MinEngagement       = 100
	MinPosts            = 50

	dailyDecay = 0.08
	noiseLow   = 0.85
	noiseSpan  = 0.30
)

// SyntheticGenerator produces a declining placeholder series when no real
// data is available. It is safe for concurrent use.
type SyntheticGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticGenerator creates a generator seeded with seed, or with the
// current time when seed is zero
func NewSyntheticGenerator(seed uint64) *SyntheticGenerator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewSyntheticGeneratorWithRand(rand.New(rand.NewPCG(seed, seed>>1|1)))
}

// NewSyntheticGeneratorWithRand creates a generator drawing noise from rng
func NewSyntheticGeneratorWithRand(rng *rand.Rand) *SyntheticGenerator {
	return &SyntheticGenerator{rng: rng}
}

// Generate returns a fourteen-day series decaying eight percent per day with
// up to fifteen percent multiplicative noise
func (g *SyntheticGenerator) Generate() trend.LifecycleSeries {
	dates := make([]string, SyntheticDays)
	engagement := make([]int, SyntheticDays)
	posts := make([]int, SyntheticDays)

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range SyntheticDays {
		decay := 1 - float64(i)*dailyDecay
		noise := noiseLow + noiseSpan*g.rng.Float64()

		dates[i] = trend.DayLabel(i)
		engagement[i] = max(int(SyntheticEngagement*decay*noise), MinEngagement)
		posts[i] = max(int(SyntheticPosts*decay*noise), MinPosts)
	}

	return trend.NewLifecycleSeries(dates, engagement, posts)
}
