package grid

import "context"

// View is the per-view grid state: its own PageState, filters and the last
// accepted result. A View is owned by one goroutine; only the Adapter and the
// fetch functions are shared.
type View struct {
	State   PageState
	Filters map[string]string

	adapter *Adapter
	fetch   FetchFunc
	count   FetchFunc
	last    Result
}

// NewView mounts a view with default page state. count may be nil when the data
// endpoint reports its own total.
func NewView(adapter *Adapter, fetch, count FetchFunc, pageSize int) *View {
	if adapter == nil {
		adapter = NewAdapter()
	}
	return &View{
		State:   NewPageState(pageSize),
		Filters: map[string]string{},
		adapter: adapter,
		fetch:   fetch,
		count:   count,
	}
}

func (v *View) Adapter() *Adapter { return v.adapter }

func (v *View) Loading() bool { return v.adapter.Loading() }

// Last returns the most recently accepted result.
func (v *View) Last() Result { return v.last }

// Params snapshots the request parameters for the current state.
func (v *View) Params() Params {
	filters := make(map[string]string, len(v.Filters))
	for k, val := range v.Filters {
		filters[k] = val
	}
	return v.State.Params(filters)
}

// Fetch requests params without touching the view. Hand the result to Apply.
func (v *View) Fetch(ctx context.Context, params Params) Result {
	return v.Prepare(params)(ctx)
}

// Prepare orders the request on the calling goroutine and returns it for
// running elsewhere. Results of earlier prepared requests are dropped by Apply.
func (v *View) Prepare(params Params) func(ctx context.Context) Result {
	return v.adapter.Prepare(params, v.fetch, v.count)
}

// Apply accepts r if it answers the latest request and reports whether it did.
func (v *View) Apply(r Result) bool {
	if !v.adapter.IsCurrent(r.Seq) {
		return false
	}
	v.last = r
	v.State.TotalCount = r.TotalCount
	return true
}

// Load fetches the current page and applies the result.
func (v *View) Load(ctx context.Context) Result {
	r := v.Fetch(ctx, v.Params())
	v.Apply(r)
	return r
}

// GoToPage changes the page, keeps the page size and re-fetches.
func (v *View) GoToPage(ctx context.Context, page int) Result {
	v.State.SetPage(page)
	return v.Load(ctx)
}

// ChangePageSize changes the page size, resets to page 1 and re-fetches.
func (v *View) ChangePageSize(ctx context.Context, size int) Result {
	v.State.SetPageSize(size)
	return v.Load(ctx)
}

// SetFilter changes one filter and returns to page 1; call Load afterwards.
func (v *View) SetFilter(key, value string) {
	if value == "" {
		delete(v.Filters, key)
	} else {
		v.Filters[key] = value
	}
	v.State.SetPage(1)
}
