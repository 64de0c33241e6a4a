package grid

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"dbconsole/logger"
	"dbconsole/models"
)

// FetchFunc performs one backend request for params and returns its envelope.
type FetchFunc func(ctx context.Context, params Params) (*models.Envelope, error)

// FailureError is a backend envelope with success=false. Its message is shown as is.
type FailureError struct {
	Msg string
}

func (e *FailureError) Error() string {
	if e.Msg == "" {
		return "request failed"
	}
	return e.Msg
}

// Result is one resolved page request. A failed request has zero columns and
// records, and Notice holds the message that was sent to the Notifier.
type Result struct {
	models.GridViewModel
	TotalCount int
	Page       int
	PageSize   int
	Seq        uint64
	Notice     string
}

func (r Result) Failed() bool { return r.Notice != "" }

// Adapter turns tabular backend payloads into grid view models and owns the
// loading flag around every request. It is safe for concurrent use.
type Adapter struct {
	notifier    Notifier
	keyField    string
	columnWidth int
	layout      *models.TableLayoutConfig
	paths       PayloadPaths

	inflight atomic.Int32
	seq      atomic.Uint64
}

type Option func(*Adapter)

func WithNotifier(n Notifier) Option {
	return func(a *Adapter) {
		if n != nil {
			a.notifier = n
		}
	}
}

// WithKeyField uses a domain column (e.g. a task id) as the row key.
func WithKeyField(field string) Option {
	return func(a *Adapter) { a.keyField = field }
}

func WithLayout(layout *models.TableLayoutConfig) Option {
	return func(a *Adapter) { a.layout = layout }
}

func WithColumnWidth(width int) Option {
	return func(a *Adapter) {
		if width > 0 {
			a.columnWidth = width
		}
	}
}

func WithPayloadPaths(paths PayloadPaths) Option {
	return func(a *Adapter) { a.paths = paths.withDefaults() }
}

func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{
		notifier:    Discard,
		columnWidth: DefaultColumnWidth,
		paths:       DefaultPayloadPaths,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Loading reports whether any request of this adapter is in flight.
func (a *Adapter) Loading() bool {
	return a.inflight.Load() > 0
}

// IsCurrent reports whether seq belongs to the most recently started request.
// Callers drop results for which it is false.
func (a *Adapter) IsCurrent(seq uint64) bool {
	return seq == a.seq.Load()
}

func (a *Adapter) begin() uint64 {
	a.inflight.Add(1)
	return a.seq.Add(1)
}

func (a *Adapter) end() {
	a.inflight.Add(-1)
}

// RequestPage fetches one page and builds its view model. It never returns an
// error: failures are notified and resolve to an empty view model.
func (a *Adapter) RequestPage(ctx context.Context, params Params, fetch FetchFunc) Result {
	return a.Prepare(params, fetch, nil)(ctx)
}

// RequestPageWithCount issues the data and count requests concurrently and
// resolves only when both are back. If either fails the whole page fails with
// the first error encountered.
func (a *Adapter) RequestPageWithCount(ctx context.Context, params Params, fetch, count FetchFunc) Result {
	return a.Prepare(params, fetch, count)(ctx)
}

// Prepare takes the sequence token and raises the loading flag now, and returns
// the request to run later, possibly on another goroutine. The returned function
// must be called exactly once. A nil count issues a single request.
func (a *Adapter) Prepare(params Params, fetch, count FetchFunc) func(ctx context.Context) Result {
	params = params.Normalize()
	seq := a.begin()
	return func(ctx context.Context) Result {
		defer a.end()
		if count == nil {
			return a.single(ctx, seq, params, fetch)
		}
		return a.joined(ctx, seq, params, fetch, count)
	}
}

func (a *Adapter) single(ctx context.Context, seq uint64, params Params, fetch FetchFunc) Result {
	env, err := call(ctx, fetch, params)
	if err != nil {
		return a.fail(seq, params, err)
	}
	payload, err := DecodePayload(env.Data, a.paths)
	if err != nil {
		return a.fail(seq, params, err)
	}

	total := (params.Page-1)*params.PageSize + len(payload.Rows)
	if payload.Total != nil {
		total = *payload.Total
	}
	return a.succeed(seq, params, payload, total)
}

func (a *Adapter) joined(ctx context.Context, seq uint64, params Params, fetch, count FetchFunc) Result {
	var dataEnv, countEnv *models.Envelope
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		env, err := call(gctx, fetch, params)
		dataEnv = env
		return err
	})
	g.Go(func() error {
		env, err := call(gctx, count, params)
		countEnv = env
		return err
	})
	if err := g.Wait(); err != nil {
		return a.fail(seq, params, err)
	}

	payload, err := DecodePayload(dataEnv.Data, a.paths)
	if err != nil {
		return a.fail(seq, params, err)
	}
	total, err := DecodeCount(countEnv.Data)
	if err != nil {
		return a.fail(seq, params, err)
	}
	return a.succeed(seq, params, payload, total)
}

// call runs fetch and folds every failure mode, including a panic, into an error.
func call(ctx context.Context, fetch FetchFunc, params Params) (env *models.Envelope, err error) {
	if fetch == nil {
		return nil, errors.New("no fetch function configured")
	}
	defer func() {
		if r := recover(); r != nil {
			env = nil
			err = fmt.Errorf("fetch panicked: %v", r)
		}
	}()

	env, err = fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, errors.New("empty response from backend")
	}
	if !env.Success {
		return nil, &FailureError{Msg: env.Msg}
	}
	return env, nil
}

func (a *Adapter) succeed(seq uint64, params Params, payload models.TabularPayload, total int) Result {
	columns := buildColumns(payload.Header, a.columnWidth)
	if a.layout != nil {
		columns = ApplyLayout(columns, a.layout)
	}
	if total < 0 {
		total = 0
	}
	return Result{
		GridViewModel: models.GridViewModel{
			Columns: columns,
			Records: BuildRecords(payload.Header, payload.Rows, a.keyField),
		},
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		Seq:        seq,
	}
}

func (a *Adapter) fail(seq uint64, params Params, err error) Result {
	msg := err.Error()
	logger.Debug("grid adapter: request %d (page %d, size %d) failed: %s", seq, params.Page, params.PageSize, msg)
	a.notifier.Notify(msg)
	return Result{
		GridViewModel: models.GridViewModel{
			Columns: []models.Column{},
			Records: []models.Record{},
		},
		Page:     params.Page,
		PageSize: params.PageSize,
		Seq:      seq,
		Notice:   msg,
	}
}
