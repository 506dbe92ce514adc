package audio

import (
	"errors"
	"testing"
)

func TestPopPlayerSilentBeforeInit(t *testing.T) {
	p := NewPopPlayer(1)
	if err := p.Play(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Play before Init: got %v, want ErrNotInitialized", err)
	}
}

func TestPopVariantsRolledFromSeed(t *testing.T) {
	a, b := NewPopPlayer(7), NewPopPlayer(7)
	if a.Variants() != popVariants {
		t.Fatalf("expected %d variants, got %d", popVariants, a.Variants())
	}
	for i := range a.variants {
		if a.variants[i] != b.variants[i] {
			t.Fatalf("variant %d differs for same seed: %+v vs %+v", i, a.variants[i], b.variants[i])
		}
		if f := a.variants[i].freq; f < 520 || f > 900 {
			t.Fatalf("variant %d frequency %g out of range", i, f)
		}
	}
}

func TestPopPickNeverRepeats(t *testing.T) {
	p := NewPopPlayer(3)
	p.next = -1
	prev := -1
	for i := 0; i < 200; i++ {
		p.pick()
		if p.next == prev {
			t.Fatalf("variant %d picked twice in a row", prev)
		}
		prev = p.next
	}
}

func TestPopStreamerLength(t *testing.T) {
	p := NewPopPlayer(5)
	s, err := p.variants[0].streamer()
	if err != nil {
		t.Fatalf("streamer: %v", err)
	}
	want := sampleRate.N(popLength)
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
		if total > want*2 {
			t.Fatalf("pop did not end after %d samples", total)
		}
	}
	if total != want {
		t.Fatalf("pop length: got %d samples, want %d", total, want)
	}
}

func TestPopDecays(t *testing.T) {
	p := NewPopPlayer(9)
	s, err := p.variants[0].streamer()
	if err != nil {
		t.Fatalf("streamer: %v", err)
	}
	n := sampleRate.N(popLength)
	buf := make([][2]float64, n)
	got, _ := s.Stream(buf)
	peak := func(from, to int) float64 {
		m := 0.0
		for _, smp := range buf[from:to] {
			if smp[0] > m {
				m = smp[0]
			} else if -smp[0] > m {
				m = -smp[0]
			}
		}
		return m
	}
	q := got / 4
	if head, tail := peak(0, q), peak(got-q, got); tail >= head {
		t.Fatalf("expected decay: head peak %g, tail peak %g", head, tail)
	}
}
