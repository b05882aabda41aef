package main

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// tone is a fading sine wave.
type tone struct {
	freq     float64
	phase    float64
	position int
	duration int
	rate     beep.SampleRate
}

func newTone(freq float64, d time.Duration, rate beep.SampleRate) *tone {
	return &tone{freq: freq, duration: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, i > 0
		}
		// Linear fade out avoids a click at the end
		gain := 0.3 * (1 - float64(t.position)/float64(t.duration))
		val := gain * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// tearSound plays a short tick whenever links break, at most once per gap.
type tearSound struct {
	ready bool
	gap   time.Duration
	last  time.Time
}

// newTearSound opens the speaker. Without an audio device it stays silent.
func newTearSound() (*tearSound, error) {
	ts := &tearSound{gap: 80 * time.Millisecond}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return ts, err
	}
	ts.ready = true
	return ts, nil
}

// Tear plays a tick pitched by how many links broke this frame.
func (ts *tearSound) Tear(broken int, now time.Time) {
	if !ts.ready || broken <= 0 || now.Sub(ts.last) < ts.gap {
		return
	}
	ts.last = now
	speaker.Play(newTone(tearPitch(broken), 60*time.Millisecond, sampleRate))
}

func (ts *tearSound) Close() {
	if ts.ready {
		speaker.Close()
		ts.ready = false
	}
}

// tearPitch rises with the number of links broken, capped at two octaves.
func tearPitch(broken int) float64 {
	octaves := math.Min(math.Log2(float64(broken)), 2)
	return 440 * math.Pow(2, octaves)
}
