package client

import (
	"context"
	"net/http"
	"strings"

	"dbconsole/grid"
	"dbconsole/models"
)

// TableFetcher adapts a catalog entry's data endpoint into a grid.FetchFunc.
func (c *Client) TableFetcher(spec models.TableSpec) grid.FetchFunc {
	return c.fetcher(spec.Method, spec.Endpoint)
}

// CountFetcher returns nil when the table reports its own total.
func (c *Client) CountFetcher(spec models.TableSpec) grid.FetchFunc {
	if spec.CountEndpoint == "" {
		return nil
	}
	return c.fetcher(spec.Method, spec.CountEndpoint)
}

func (c *Client) fetcher(method, endpoint string) grid.FetchFunc {
	if strings.EqualFold(method, http.MethodPost) {
		return func(ctx context.Context, params grid.Params) (*models.Envelope, error) {
			return c.Post(ctx, endpoint, params.Body())
		}
	}
	return func(ctx context.Context, params grid.Params) (*models.Envelope, error) {
		return c.Get(ctx, endpoint, params.Values())
	}
}
