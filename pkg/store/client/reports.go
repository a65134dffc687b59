package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/de-tools/report-atlas/pkg/models/api"
)

func (c *Client) SaveReport(ctx context.Context, req api.ReportRequest) (*api.Report, error) {
	var report api.Report
	if err := c.call(ctx, request{method: http.MethodPost, path: "/reports/", body: req}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) ListReports(ctx context.Context) ([]api.Report, error) {
	raw, err := c.list(ctx, "/reports/", nil)
	if err != nil {
		return nil, err
	}
	reports, err := decodeList[api.Report](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return reports, nil
}

func (c *Client) GetReport(ctx context.Context, id int64) (*api.Report, error) {
	var report api.Report
	if err := c.call(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/reports/%d/", id)}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) DeleteReport(ctx context.Context, id int64) error {
	return c.call(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/reports/%d/", id)}, nil)
}

func (c *Client) DuplicateReport(ctx context.Context, id int64) (*api.Report, error) {
	var report api.Report
	path := fmt.Sprintf("/reports/%d/duplicate/", id)
	if err := c.call(ctx, request{method: http.MethodPost, path: path}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ExecuteReport starts an asynchronous execution and returns its id.
func (c *Client) ExecuteReport(ctx context.Context, id int64) (*api.ExecuteResponse, error) {
	var res api.ExecuteResponse
	path := fmt.Sprintf("/reports/%d/execute/", id)
	if err := c.call(ctx, request{method: http.MethodPost, path: path}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetExecution(ctx context.Context, id int64) (*api.Execution, error) {
	var execution api.Execution
	path := fmt.Sprintf("/executions/%d/", id)
	if err := c.call(ctx, request{method: http.MethodGet, path: path}, &execution); err != nil {
		return nil, err
	}
	return &execution, nil
}

func (c *Client) RetryExecution(ctx context.Context, id int64) (*api.ExecuteResponse, error) {
	var res api.ExecuteResponse
	path := fmt.Sprintf("/executions/%d/retry/", id)
	if err := c.call(ctx, request{method: http.MethodPost, path: path}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateSchedule(ctx context.Context, req api.ScheduleRequest) error {
	return c.call(ctx, request{method: http.MethodPost, path: "/schedules/", body: req}, nil)
}

func (c *Client) CreateEmailDistribution(ctx context.Context, req api.EmailDistributionRequest) error {
	return c.call(ctx, request{method: http.MethodPost, path: "/email-distributions/", body: req}, nil)
}
