package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dbconsole/client"
	"dbconsole/config"
	"dbconsole/database"
	"dbconsole/grid"
	"dbconsole/logger"
	"dbconsole/models"
)

// ErrUnknownTable is returned for a table name missing from the catalog.
var ErrUnknownTable = errors.New("unknown table")

// NewBackendClient builds the backend client for cfg. It sends the stored session
// token and forgets it when the backend rejects it.
func NewBackendClient(cfg config.Configuration) *client.Client {
	c := client.New(cfg.Backend.BaseURL, cfg.Timeout())
	c.Token = database.TokenOrEmpty
	c.OnUnauthorized = func() {
		logger.Warn("Backend rejected the session token, clearing it.")
		if err := database.ClearAuthToken(); err != nil {
			logger.Error("OnUnauthorized: Error clearing auth token: %v", err)
		}
	}
	return c
}

// GridService binds the table catalog to the backend client and the stored
// session and layouts. One adapter per table is shared by every request so
// sequence tokens keep increasing across callers.
type GridService struct {
	cfg    config.Configuration
	client *client.Client

	mu       sync.Mutex
	adapters map[string]*grid.Adapter
}

func NewGridService(cfg config.Configuration, c *client.Client) *GridService {
	return &GridService{
		cfg:      cfg,
		client:   c,
		adapters: make(map[string]*grid.Adapter),
	}
}

// Tables returns the catalog sorted by name.
func (s *GridService) Tables() []models.TableSpec {
	names := s.cfg.TableNames()
	specs := make([]models.TableSpec, 0, len(names))
	for _, name := range names {
		spec, _ := s.cfg.Table(name)
		specs = append(specs, spec)
	}
	return specs
}

func (s *GridService) Table(name string) (models.TableSpec, error) {
	spec, ok := s.cfg.Table(name)
	if !ok {
		return models.TableSpec{}, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return spec, nil
}

func (s *GridService) payloadPaths() grid.PayloadPaths {
	return grid.PayloadPaths{
		Header: s.cfg.Backend.HeaderPath,
		Rows:   s.cfg.Backend.RowsPath,
		Total:  s.cfg.Backend.TotalPath,
	}
}

func (s *GridService) adapterFor(spec models.TableSpec) *grid.Adapter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.adapters[spec.Name]; ok {
		return a
	}
	a := grid.NewAdapter(
		grid.WithKeyField(spec.KeyField),
		grid.WithColumnWidth(s.cfg.Grid.DefaultColumnWidth),
		grid.WithPayloadPaths(s.payloadPaths()),
	)
	s.adapters[spec.Name] = a
	return a
}

// withSession adds the selected instance unless the caller already filters on one.
func withSession(params grid.Params) grid.Params {
	if _, ok := params.Filters[models.InstanceFilterParam]; ok {
		return params
	}
	instance, err := database.GetSelectedInstance()
	if err != nil {
		logger.Error("withSession: Error reading selected instance: %v", err)
		return params
	}
	if instance == "" {
		return params
	}
	filters := make(map[string]string, len(params.Filters)+1)
	for k, v := range params.Filters {
		filters[k] = v
	}
	filters[models.InstanceFilterParam] = instance
	params.Filters = filters
	return params
}

func loadLayout(table string) *models.TableLayoutConfig {
	layout, err := database.GetTableLayout(table)
	if err != nil {
		logger.Error("loadLayout: Error reading layout for table %s: %v", table, err)
		return nil
	}
	return layout
}

// Page requests one page of table. Backend failures are not errors: they come
// back as an empty grid with Notice set.
func (s *GridService) Page(ctx context.Context, table string, params grid.Params) (models.GridResponse, error) {
	spec, err := s.Table(table)
	if err != nil {
		return models.GridResponse{}, err
	}
	params = withSession(params)
	layout := loadLayout(spec.Name)
	if params.PageSize <= 0 {
		params.PageSize = s.defaultPageSize(layout)
	}

	a := s.adapterFor(spec)
	r := a.RequestPageWithCount(ctx, params, s.client.TableFetcher(spec), s.client.CountFetcher(spec))
	if layout != nil {
		r.Columns = grid.ApplyLayout(r.Columns, layout)
	}
	return ToResponse(spec.Name, r), nil
}

func (s *GridService) defaultPageSize(layout *models.TableLayoutConfig) int {
	if layout != nil && layout.PageSize > 0 {
		return layout.PageSize
	}
	return s.cfg.Grid.DefaultPageSize
}

// NewView mounts a view on table for a single owner (CLI run or terminal
// browser). Page size is seeded from the stored layout.
func (s *GridService) NewView(table string, notifier grid.Notifier) (*grid.View, models.TableSpec, error) {
	spec, err := s.Table(table)
	if err != nil {
		return nil, spec, err
	}
	layout := loadLayout(spec.Name)
	a := grid.NewAdapter(
		grid.WithNotifier(notifier),
		grid.WithKeyField(spec.KeyField),
		grid.WithColumnWidth(s.cfg.Grid.DefaultColumnWidth),
		grid.WithPayloadPaths(s.payloadPaths()),
		grid.WithLayout(layout),
	)
	v := grid.NewView(a, s.client.TableFetcher(spec), s.client.CountFetcher(spec), s.defaultPageSize(layout))
	if instance, err := database.GetSelectedInstance(); err == nil && instance != "" {
		v.Filters[models.InstanceFilterParam] = instance
	}
	return v, spec, nil
}

// ToResponse flattens an adapter result into the server's wire shape.
func ToResponse(table string, r grid.Result) models.GridResponse {
	return models.GridResponse{
		Table:      table,
		Columns:    r.Columns,
		Records:    r.Records,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalCount: r.TotalCount,
		Seq:        r.Seq,
		Notice:     r.Notice,
	}
}
