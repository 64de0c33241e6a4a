package grid

import (
	"net/url"
	"strconv"
)

// DefaultPageSize is used when a view mounts without a stored layout.
const DefaultPageSize = 10

const (
	ParamCurrent  = "current"
	ParamPageSize = "pagesize"
)

// PageState is the pagination position of one grid instance. It is owned by a
// single view and never shared.
type PageState struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalCount  int `json:"total_count"`
}

// NewPageState returns the state a view starts with: page 1, the given size
// (DefaultPageSize when not positive), total 0.
func NewPageState(pageSize int) PageState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return PageState{CurrentPage: 1, PageSize: pageSize}
}

// SetPage moves to page, keeping the page size.
func (s *PageState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.CurrentPage = page
}

// SetPageSize changes the page size and always returns to page 1.
func (s *PageState) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	s.PageSize = size
	s.CurrentPage = 1
}

func (s PageState) Offset() int {
	return (s.CurrentPage - 1) * s.PageSize
}

func (s PageState) TotalPages() int {
	if s.TotalCount <= 0 || s.PageSize <= 0 {
		return 0
	}
	return (s.TotalCount + s.PageSize - 1) / s.PageSize
}

// Params holds everything sent with one page request.
type Params struct {
	Page     int
	PageSize int
	Filters  map[string]string
}

// Params builds the request parameters for the current position.
func (s PageState) Params(filters map[string]string) Params {
	return Params{Page: s.CurrentPage, PageSize: s.PageSize, Filters: filters}
}

// Normalize clamps page to >= 1 and page size to > 0.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Values encodes the params the way the backend expects them. Filters pass through
// unchanged but can not override the paging keys.
func (p Params) Values() url.Values {
	v := url.Values{}
	for k, val := range p.Filters {
		if k == ParamCurrent || k == ParamPageSize {
			continue
		}
		v.Set(k, val)
	}
	v.Set(ParamCurrent, strconv.Itoa(p.Page))
	v.Set(ParamPageSize, strconv.Itoa(p.PageSize))
	return v
}

// Body is the POST form of Values.
func (p Params) Body() map[string]any {
	body := make(map[string]any, len(p.Filters)+2)
	for k, val := range p.Filters {
		body[k] = val
	}
	body[ParamCurrent] = p.Page
	body[ParamPageSize] = p.PageSize
	return body
}
