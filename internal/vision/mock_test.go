package vision

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var selfie = Image{Key: "k", MimeType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}}

func TestMockAnalyzerReturnsCannedResult(t *testing.T) {
	m := NewMockAnalyzer(0, rand.NewSource(1))
	for i := 0; i < 20; i++ {
		res, err := m.Analyze(context.Background(), selfie)
		require.NoError(t, err)
		assert.Contains(t, cannedResults, res)
		require.NoError(t, res.Validate())
	}
}

func TestMockAnalyzerDeterministicWithSeed(t *testing.T) {
	a := NewMockAnalyzer(0, rand.NewSource(42))
	b := NewMockAnalyzer(0, rand.NewSource(42))
	for i := 0; i < 5; i++ {
		ra, _ := a.Analyze(context.Background(), selfie)
		rb, _ := b.Analyze(context.Background(), selfie)
		assert.Equal(t, ra, rb)
	}
}

func TestMockAnalyzerHonorsCancellation(t *testing.T) {
	m := NewMockAnalyzer(time.Hour, rand.NewSource(1))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := m.Analyze(ctx, selfie)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("analyzer did not return after cancellation")
	}
}

func TestMockAnalyzerWaitsForDelay(t *testing.T) {
	m := NewMockAnalyzer(20*time.Millisecond, rand.NewSource(1))
	start := time.Now()
	_, err := m.Analyze(context.Background(), selfie)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestMockAnalyzerRejectsEmptyImage(t *testing.T) {
	m := NewMockAnalyzer(0, nil)
	_, err := m.Analyze(context.Background(), Image{})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestResultValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Result
		wantErr bool
	}{
		{name: "complete", in: Result{SkinTone: "Tan", Undertone: "Warm", EyeColor: "Green", Confidence: 0.9}},
		{name: "face shape optional", in: Result{SkinTone: "Tan", Undertone: "Warm", EyeColor: "Green"}},
		{name: "missing skin tone", in: Result{Undertone: "Warm", EyeColor: "Green"}, wantErr: true},
		{name: "blank undertone", in: Result{SkinTone: "Tan", Undertone: "  ", EyeColor: "Green"}, wantErr: true},
		{name: "confidence too high", in: Result{SkinTone: "Tan", Undertone: "Warm", EyeColor: "Green", Confidence: 1.5}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOutput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUnavailableAnalyzer(t *testing.T) {
	_, err := Unavailable{}.Analyze(context.Background(), selfie)
	assert.ErrorIs(t, err, ErrAnalyzerUnavailable)
}
