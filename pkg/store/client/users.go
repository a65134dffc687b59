package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/de-tools/report-atlas/pkg/models/api"
	"golang.org/x/sync/errgroup"
)

type UserQuery struct {
	Search   string
	Role     string
	IsActive *bool
	Ordering string
}

func (q UserQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Role != "" && q.Role != "all" {
		v.Set("role", q.Role)
	}
	if q.IsActive != nil {
		v.Set("is_active", strconv.FormatBool(*q.IsActive))
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	return v
}

func (c *Client) ListUsers(ctx context.Context, q UserQuery) ([]api.User, error) {
	raw, err := c.list(ctx, "/users/", q.values())
	if err != nil {
		return nil, err
	}
	users, err := decodeList[api.User](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*api.User, error) {
	var user api.User
	if err := c.call(ctx, request{method: http.MethodGet, path: userPath(id)}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, req api.UserCreate) (*api.User, error) {
	var user api.User
	if err := c.call(ctx, request{method: http.MethodPost, path: "/users/", body: req}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, update api.UserUpdate) (*api.User, error) {
	var user api.User
	if err := c.call(ctx, request{method: http.MethodPatch, path: userPath(id), body: update}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.call(ctx, request{method: http.MethodDelete, path: userPath(id)}, nil)
}

func (c *Client) ToggleUserStatus(ctx context.Context, id int64) (*api.User, error) {
	var user api.User
	path := fmt.Sprintf("/users/%d/toggle_status/", id)
	if err := c.call(ctx, request{method: http.MethodPost, path: path}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UserStats(ctx context.Context) (*api.UserStats, error) {
	var stats api.UserStats
	if err := c.call(ctx, request{method: http.MethodGet, path: "/users/stats/"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) UserRoles(ctx context.Context) ([]api.Role, error) {
	var roles []api.Role
	if err := c.call(ctx, request{method: http.MethodGet, path: "/users/roles/"}, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// BulkUpdateUsers patches every user concurrently. Results keep the order of ids;
// the first failure cancels the remaining requests.
func (c *Client) BulkUpdateUsers(ctx context.Context, ids []int64, update api.UserUpdate) ([]api.User, error) {
	users := make([]api.User, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			user, err := c.UpdateUser(gctx, id, update)
			if err != nil {
				return fmt.Errorf("update user %d: %w", id, err)
			}
			users[i] = *user
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) BulkDeleteUsers(ctx context.Context, ids []int64) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			if err := c.DeleteUser(gctx, id); err != nil {
				return fmt.Errorf("delete user %d: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func userPath(id int64) string {
	return fmt.Sprintf("/users/%d/", id)
}
