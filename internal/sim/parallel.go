package sim

import (
	"context"
	"sync"

	"github.com/san-kum/polyorbit/internal/session"
	"github.com/san-kum/polyorbit/internal/settings"
)

// Ensemble runs independent documents concurrently, one session each.
type Ensemble struct {
	factory func() *session.Session
	metrics func() []Metric
}

// NewEnsemble creates a session per document with factory. metrics, if not
// nil, is called once per run so no metric is shared between goroutines.
func NewEnsemble(factory func() *session.Session, metrics func() []Metric) *Ensemble {
	return &Ensemble{factory: factory, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, docs []*settings.Document, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(docs))
	errs := make([]error, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(idx int, doc *settings.Document) {
			defer wg.Done()

			sess := e.factory()
			defer sess.Close()
			if err := sess.LoadDocument(doc); err != nil {
				errs[idx] = err
				return
			}

			runner := New()
			if e.metrics != nil {
				for _, m := range e.metrics() {
					runner.AddMetric(m)
				}
			}
			results[idx], errs[idx] = runner.Run(ctx, sess, cfg)
		}(i, doc)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
