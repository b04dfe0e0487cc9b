package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openpaws/policyradar/internal/model"
)

// recordingProvider counts draft calls and records their start times.
type recordingProvider struct {
	mu     sync.Mutex
	starts []time.Time
	tones  []Tone
	err    error
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Classify(ctx context.Context, title, description, ministry string) (*Classification, error) {
	return nil, errors.New("not implemented")
}

func (p *recordingProvider) Describe(ctx context.Context, documentURL string) (string, error) {
	return "", errors.New("not implemented")
}

func (p *recordingProvider) Draft(ctx context.Context, rec model.PolicyRecord, tone Tone) (string, error) {
	p.mu.Lock()
	p.starts = append(p.starts, time.Now())
	p.tones = append(p.tones, tone)
	p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	return fmt.Sprintf("draft %d in %s tone", len(p.starts), tone), nil
}

func (p *recordingProvider) IsAvailable(ctx context.Context) bool { return true }

func queueRecord() model.PolicyRecord {
	return model.PolicyRecord{
		ID:       "q-1",
		Title:    "Draft Animal Transport Rules",
		Ministry: "Ministry of Fisheries, Animal Husbandry and Dairying",
		Deadline: time.Now().AddDate(0, 0, 30).Format(model.DeadlineLayout),
	}
}

func TestDraftQueue_SerializesAndSpacesCalls(t *testing.T) {
	provider := &recordingProvider{}
	interval := 50 * time.Millisecond
	q := NewDraftQueue(provider, interval)
	defer q.Close()

	const n = 4
	rec := queueRecord()
	for i := 0; i < n; i++ {
		if _, err := q.Generate(context.Background(), rec, "legal"); err != nil {
			t.Fatalf("Generate %d: %v", i, err)
		}
	}

	provider.mu.Lock()
	starts := append([]time.Time(nil), provider.starts...)
	provider.mu.Unlock()

	if len(starts) != n {
		t.Fatalf("oracle called %d times, want %d", len(starts), n)
	}
	// Allow a little scheduler slack below the nominal interval.
	minGap := interval - 10*time.Millisecond
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < minGap {
			t.Errorf("calls %d and %d only %v apart, want >= %v", i-1, i, gap, interval)
		}
	}
}

func TestDraftQueue_PreservesSubmissionOrder(t *testing.T) {
	provider := &recordingProvider{}
	q := NewDraftQueue(provider, time.Millisecond)
	defer q.Close()

	tones := []string{"legal", "emotional", "data_backed", "financial", "business", "livelihood"}
	rec := queueRecord()

	// Submit from one goroutine so arrival order is deterministic; each
	// request still blocks its caller until served.
	var wg sync.WaitGroup
	results := make([]string, len(tones))
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i, tone := range tones {
			text, err := q.Generate(context.Background(), rec, tone)
			if err != nil {
				t.Errorf("Generate(%s): %v", tone, err)
				return
			}
			results[i] = text
		}
	}()
	wg.Wait()

	provider.mu.Lock()
	defer provider.mu.Unlock()
	if len(provider.tones) != len(tones) {
		t.Fatalf("oracle called %d times, want %d", len(provider.tones), len(tones))
	}
	for i, tone := range tones {
		if provider.tones[i] != Tone(tone) {
			t.Errorf("call %d served tone %s, want %s", i, provider.tones[i], tone)
		}
	}
}

func TestDraftQueue_NilProviderUsesFallback(t *testing.T) {
	q := NewDraftQueue(nil, time.Hour) // interval must not apply to fallback
	defer q.Close()

	done := make(chan struct{})
	var text string
	var err error
	go func() {
		defer close(done)
		text, err = q.Generate(context.Background(), queueRecord(), "emotional")
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fallback draft blocked on oracle pacing")
	}
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(text, "Draft Animal Transport Rules") {
		t.Errorf("fallback draft missing title: %q", text)
	}
}

func TestDraftQueue_OracleErrorDegradesToTemplate(t *testing.T) {
	provider := &recordingProvider{err: errors.New("rate limited")}
	q := NewDraftQueue(provider, time.Millisecond)
	defer q.Close()

	text, err := q.Generate(context.Background(), queueRecord(), "legal")
	if err != nil {
		t.Fatalf("oracle failure must not surface as error, got %v", err)
	}
	if !strings.Contains(text, "Prevention of Cruelty to Animals Act") {
		t.Errorf("expected canned legal template, got %q", text)
	}
}

func TestDraftQueue_ContextCancellation(t *testing.T) {
	provider := &recordingProvider{}
	q := NewDraftQueue(provider, time.Hour)
	defer q.Close()

	// First request consumes the limiter's initial token; the second waits
	// an hour for pacing unless its context fires.
	if _, err := q.Generate(context.Background(), queueRecord(), "legal"); err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	if _, err := q.Generate(ctx, queueRecord(), "legal"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDraftQueue_UnknownToneNormalized(t *testing.T) {
	provider := &recordingProvider{}
	q := NewDraftQueue(provider, time.Millisecond)
	defer q.Close()

	if _, err := q.Generate(context.Background(), queueRecord(), "shouty"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	provider.mu.Lock()
	defer provider.mu.Unlock()
	if provider.tones[0] != ToneLegal {
		t.Errorf("unknown tone served as %s, want legal default", provider.tones[0])
	}
}
