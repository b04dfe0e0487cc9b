package oracle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/openpaws/policyradar/internal/model"
)

// DefaultDraftInterval is the minimum spacing between draft oracle call
// starts. The upstream API rate-limits aggressively; spacing is enforced
// process-wide through a single shared queue instance.
const DefaultDraftInterval = 5 * time.Second

// DraftQueue serializes draft generation: at most one in-flight oracle
// request at a time, requests served strictly in arrival order, with a
// minimum interval between consecutive call starts. Construct one queue at
// process start and inject it into callers.
type DraftQueue struct {
	provider Provider // nil means fallback-only
	limiter  *rate.Limiter

	requests  chan draftRequest
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type draftRequest struct {
	ctx  context.Context
	rec  model.PolicyRecord
	tone Tone
	out  chan draftResult
}

type draftResult struct {
	text string
	err  error
}

// NewDraftQueue creates the queue and starts its single worker.
func NewDraftQueue(provider Provider, minInterval time.Duration) *DraftQueue {
	if minInterval <= 0 {
		minInterval = DefaultDraftInterval
	}

	q := &DraftQueue{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
		requests: make(chan draftRequest, 64),
	}

	q.wg.Add(1)
	go q.worker()
	return q
}

func (q *DraftQueue) worker() {
	defer q.wg.Done()
	for req := range q.requests {
		req.out <- q.process(req)
	}
}

func (q *DraftQueue) process(req draftRequest) draftResult {
	if err := req.ctx.Err(); err != nil {
		return draftResult{err: err}
	}

	if q.provider == nil {
		return draftResult{text: FallbackDraft(req.rec, req.tone)}
	}

	// Pacing applies to oracle calls only; fallback drafts are free.
	if err := q.limiter.Wait(req.ctx); err != nil {
		return draftResult{err: err}
	}

	text, err := q.provider.Draft(req.ctx, req.rec, req.tone)
	if err != nil {
		// Oracle failure degrades to the canned template, never errors.
		return draftResult{text: FallbackDraft(req.rec, req.tone)}
	}
	return draftResult{text: text}
}

// Generate requests a draft in the given tone (normalized if unknown) and
// blocks until this request reaches the front of the queue and completes.
// The only error cause is context cancellation.
func (q *DraftQueue) Generate(ctx context.Context, rec model.PolicyRecord, tone string) (string, error) {
	req := draftRequest{
		ctx:  ctx,
		rec:  rec,
		tone: NormalizeTone(tone),
		out:  make(chan draftResult, 1),
	}

	select {
	case q.requests <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case res := <-req.out:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops accepting requests and waits for the worker to drain.
func (q *DraftQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.requests)
	})
	q.wg.Wait()
}
