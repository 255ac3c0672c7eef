package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"pg-portal/services"
	"pg-portal/storage"
)

func SessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or clear the stored portal sessions",
	}
	cmd.AddCommand(sessionStatusCmd(), sessionLogoutCmd())
	return cmd
}

func sessionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is signed in and when their tokens expire",
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, closeStore, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			return printSessionStatus(cmd.Context(), cmd.OutOrStdout(), kv, services.NewTokenValidator(time.Now))
		},
	}
}

func sessionLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear stored sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, closeStore, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			portal, _ := cmd.Flags().GetString("portal")
			return logoutSessions(cmd.Context(), cmd.OutOrStdout(), kv, portal)
		},
	}

	cmd.Flags().String("portal", "all", "Which session to clear: tenant, admin or all")

	return cmd
}

type sessionStatus struct {
	name     string
	loggedIn bool
	who      string
	token    string
}

func printSessionStatus(ctx context.Context, out io.Writer, kv storage.KVStore, validator *services.TokenValidator) error {
	tenant := services.NewTenantSession(ctx, kv, validator)
	admin := services.NewAdminSession(ctx, kv, validator)

	statuses := []sessionStatus{{name: "tenant", loggedIn: tenant.IsLoggedIn()}, {name: "admin", loggedIn: admin.IsLoggedIn()}}
	if t := tenant.Current(); t != nil {
		statuses[0].who = t.Email
	}
	if a := admin.Current(); a != nil {
		statuses[1].who = a.Email
	}

	var err error
	if statuses[0].token, err = tenant.Token(ctx); err != nil {
		return err
	}
	if statuses[1].token, err = admin.Token(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "%-8s  %-10s  %-30s  %s\n", "Portal", "Status", "Identity", "Token expires")
	for _, s := range statuses {
		state, expires := "signed out", "-"
		if s.loggedIn {
			state = "signed in"
			if at, ok := validator.ExpiresAt(s.token); ok {
				expires = at.Local().Format(time.RFC1123)
			}
		}
		who := s.who
		if who == "" {
			who = "-"
		}
		fmt.Fprintf(out, "%-8s  %-10s  %-30s  %s\n", s.name, state, who, expires)
	}
	return nil
}

func logoutSessions(ctx context.Context, out io.Writer, kv storage.KVStore, portal string) error {
	validator := services.NewTokenValidator(time.Now)

	switch portal {
	case "tenant", "all", "admin":
	default:
		return fmt.Errorf("unknown portal %q: use tenant, admin or all", portal)
	}

	if portal == "tenant" || portal == "all" {
		if err := services.NewTenantSession(ctx, kv, validator).Logout(ctx); err != nil {
			return fmt.Errorf("clear tenant session: %w", err)
		}
		fmt.Fprintln(out, "tenant session cleared")
	}
	if portal == "admin" || portal == "all" {
		if err := services.NewAdminSession(ctx, kv, validator).Logout(ctx); err != nil {
			return fmt.Errorf("clear admin session: %w", err)
		}
		fmt.Fprintln(out, "admin session cleared")
	}
	return nil
}
