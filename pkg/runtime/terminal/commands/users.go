package commands

import (
	"fmt"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/store/client"
	"github.com/spf13/cobra"
)

func NewUsersCmd(c *client.Client, reporter *export.Reporter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer users",
	}

	var (
		query  client.UserQuery
		active string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch active {
			case "":
			case "true", "false":
				v := active == "true"
				query.IsActive = &v
			default:
				return fmt.Errorf("--active must be true or false")
			}
			users, err := c.ListUsers(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			out := make([]domain.User, 0, len(users))
			for _, u := range users {
				out = append(out, adapters.MapAPIUserToDomain(u))
			}
			return reporter.Users(out)
		},
	}
	list.Flags().StringVar(&query.Search, "search", "", "Filter by name or email")
	list.Flags().StringVar(&query.Role, "role", "", "Filter by role")
	list.Flags().StringVar(&active, "active", "", "Filter by status: true or false")
	list.Flags().StringVar(&query.Ordering, "ordering", "", "Sort field, prefix with - for descending")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show user statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := c.UserStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load user stats: %w", err)
			}
			return reporter.UserStats(adapters.MapAPIUserStatsToDomain(*stats))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "roles",
		Short: "List assignable roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles, err := c.UserRoles(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load roles: %w", err)
			}
			for _, r := range roles {
				fmt.Fprintf(reporter.Writer(), "%-16s %s\n", r.Value, r.Label)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Activate or deactivate a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := c.ToggleUserStatus(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to toggle user %d: %w", id, err)
			}
			return reporter.Users([]domain.User{adapters.MapAPIUserToDomain(*u)})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			if len(ids) == 1 {
				return c.DeleteUser(cmd.Context(), ids[0])
			}
			return c.BulkDeleteUsers(cmd.Context(), ids)
		},
	})

	return cmd
}
