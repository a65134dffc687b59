package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/de-tools/report-atlas/pkg/models/api"
)

func (c *Client) ListDataSources(ctx context.Context) ([]api.DataSource, error) {
	raw, err := c.list(ctx, "/data-sources/", nil)
	if err != nil {
		return nil, err
	}
	sources, err := decodeList[api.DataSource](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data sources: %w", err)
	}
	return sources, nil
}

func (c *Client) CreateDataSource(ctx context.Context, ds api.DataSource) (*api.DataSource, error) {
	var created api.DataSource
	if err := c.call(ctx, request{method: http.MethodPost, path: "/data-sources/", body: ds}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) TestConnection(ctx context.Context, id int64) (*api.ConnectionTest, error) {
	var res api.ConnectionTest
	path := fmt.Sprintf("/data-sources/%d/test_connection/", id)
	if err := c.call(ctx, request{method: http.MethodPost, path: path}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetSchema(ctx context.Context, id int64) (*api.Schema, error) {
	var schema api.Schema
	path := fmt.Sprintf("/data-sources/%d/schema/", id)
	if err := c.call(ctx, request{method: http.MethodGet, path: path}, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}
