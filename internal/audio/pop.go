// Package audio plays the cash pop cue through the beep speaker.
package audio

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate  = beep.SampleRate(44100)
	popVariants = 5
	popLength   = 70 * time.Millisecond
)

// ErrNotInitialized is returned by Play before Init succeeded.
var ErrNotInitialized = errors.New("audio: speaker not initialized")

// popVariant is one pre-rolled pop: a pitch and a loudness.
type popVariant struct {
	freq   float64
	volume float64 // log2 gain
}

// PopPlayer plays short randomised "pop" sounds. A PopPlayer that was never
// initialised, or whose Init failed, stays silent and reports ErrNotInitialized.
type PopPlayer struct {
	mu          sync.Mutex
	rng         *rand.Rand
	variants    []popVariant
	next        int
	initialized bool
}

// NewPopPlayer rolls the pop variants from seed.
func NewPopPlayer(seed int64) *PopPlayer {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
	p := &PopPlayer{rng: rng}
	for i := 0; i < popVariants; i++ {
		p.variants = append(p.variants, popVariant{
			freq:   520 + rng.Float64()*380,
			volume: -1.5 - rng.Float64(),
		})
	}
	return p
}

// Init opens the speaker. Calling it again after success is a no-op.
func (p *PopPlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.initialized = true
	return nil
}

// Variants returns the number of distinct pops.
func (p *PopPlayer) Variants() int { return len(p.variants) }

// Play queues one pop. Variants are picked at random, never the same one
// twice in a row.
func (p *PopPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return ErrNotInitialized
	}
	v := p.pick()
	s, err := v.streamer()
	if err != nil {
		return err
	}
	speaker.Play(s)
	return nil
}

func (p *PopPlayer) pick() popVariant {
	i := p.rng.Intn(len(p.variants))
	if len(p.variants) > 1 && i == p.next {
		i = (i + 1) % len(p.variants)
	}
	p.next = i
	return p.variants[i]
}

func (v popVariant) streamer() (beep.Streamer, error) {
	tone, err := generators.SineTone(sampleRate, v.freq)
	if err != nil {
		return nil, fmt.Errorf("pop tone %.0fHz: %w", v.freq, err)
	}
	n := sampleRate.N(popLength)
	vol := &effects.Volume{Streamer: decay(tone, n), Base: 2, Volume: v.volume}
	return beep.Take(n, vol), nil
}

// decay fades s out exponentially over n samples.
func decay(s beep.Streamer, n int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		got, ok := s.Stream(samples)
		for i := 0; i < got; i++ {
			g := math.Exp(-5 * float64(pos) / float64(n))
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return got, ok
	})
}
