package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/store/client"
	"github.com/spf13/cobra"
)

type LoginCmd struct {
	login    string
	password string
	client   *client.Client
}

func NewLoginCmd(c *client.Client) *cobra.Command {
	lc := &LoginCmd{client: c}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the report service and store the session",
		RunE:  lc.run,
	}

	cmd.Flags().StringVarP(&lc.login, "user", "u", "", "Username or email")
	cmd.Flags().StringVarP(&lc.password, "password", "p", "", "Password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func (lc *LoginCmd) run(cmd *cobra.Command, _ []string) error {
	password := lc.password
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	pair, err := lc.client.Login(cmd.Context(), lc.login, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	name := lc.login
	if pair.User != nil && pair.User.FullName != "" {
		name = pair.User.FullName
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
	return nil
}

func NewLogoutCmd(c *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func NewWhoamiCmd(c *client.Client, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			user, err := c.Me(ctx)
			if err != nil {
				return fmt.Errorf("failed to load current user: %w", err)
			}
			out := reporter.Writer()
			fmt.Fprintf(out, "%s <%s> role=%s\n", user.Username, user.Email, user.Role)

			expiry, err := c.TokenExpiry(ctx)
			if err == nil && !expiry.IsZero() {
				fmt.Fprintf(out, "Access token expires %s\n", expiry.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}
