package vision

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// DefaultMockDelay mirrors the latency of a real vision call.
const DefaultMockDelay = 2 * time.Second

var cannedResults = []Result{
	{SkinTone: "Fair", Undertone: "Cool", EyeColor: "Blue", FaceShape: "Oval", Confidence: 0.92},
	{SkinTone: "Medium", Undertone: "Warm", EyeColor: "Brown", FaceShape: "Heart", Confidence: 0.88},
	{SkinTone: "Tan", Undertone: "Neutral", EyeColor: "Hazel", FaceShape: "Round", Confidence: 0.90},
	{SkinTone: "Deep", Undertone: "Warm", EyeColor: "Brown", FaceShape: "Square", Confidence: 0.85},
}

// CannedResults returns the results the mock analyzer picks from.
func CannedResults() []Result {
	return append([]Result(nil), cannedResults...)
}

// MockAnalyzer waits for Delay then returns one of the canned results.
type MockAnalyzer struct {
	Delay time.Duration

	mu   sync.Mutex
	rand *rand.Rand
}

// NewMockAnalyzer returns a mock with the given delay. A nil src seeds from
// the clock.
func NewMockAnalyzer(delay time.Duration, src rand.Source) *MockAnalyzer {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &MockAnalyzer{Delay: delay, rand: rand.New(src)}
}

func (m *MockAnalyzer) Name() string { return "mock" }

func (m *MockAnalyzer) Analyze(ctx context.Context, img Image) (Result, error) {
	if len(img.Data) == 0 {
		return Result{}, ErrEmptyImage
	}
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	m.mu.Lock()
	idx := m.rand.Intn(len(cannedResults))
	m.mu.Unlock()
	return cannedResults[idx], nil
}

var _ Analyzer = (*MockAnalyzer)(nil)
