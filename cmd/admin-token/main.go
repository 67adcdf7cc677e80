// Command admin-token mints an admin access token for one tenant. The
// secret and issuer come from the same environment as the server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/airqo/platform/api/internal/config"
	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
	"github.com/airqo/platform/api/pkg/jwt"
	"github.com/spf13/cobra"
)

type options struct {
	tenant     string
	userID     string
	email      string
	expMins    int
	outputJSON bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "admin-token",
		Short:        "Mint an admin JWT for a tenant",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "tenant the token is valid for (default tenant when empty)")
	cmd.Flags().StringVar(&opts.userID, "user", "user:admin", "user ID for the token")
	cmd.Flags().StringVar(&opts.email, "email", "admin@airqo.net", "email for the token")
	cmd.Flags().IntVar(&opts.expMins, "exp", 60*24*7, "token expiration in minutes")
	cmd.Flags().BoolVar(&opts.outputJSON, "json", false, "output as JSON")
	return cmd
}

func run(out io.Writer, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	resolver, err := tenant.NewResolver(cfg.Tenancy.Default, cfg.Tenancy.Allowed)
	if err != nil {
		return err
	}
	t, err := resolver.Resolve(opts.tenant)
	if err != nil {
		return err
	}

	jwtService, err := jwt.NewService(jwt.Config{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: opts.expMins,
	})
	if err != nil {
		return fmt.Errorf("create JWT service (is JWT_SECRET set?): %w", err)
	}

	token, err := jwtService.Sign(jwt.Claims{
		UserID:   opts.userID,
		Email:    opts.email,
		UserName: "admin",
		Tenant:   t.String(),
		Role:     string(model.UserRoleAdmin),
	})
	if err != nil {
		return err
	}

	if opts.outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   opts.expMins * 60,
			"user_id":      opts.userID,
			"tenant":       t.String(),
			"role":         model.UserRoleAdmin,
		})
	}

	expires := time.Now().Add(time.Duration(opts.expMins) * time.Minute)
	fmt.Fprintln(out, "Admin Token Generated")
	fmt.Fprintln(out, "=====================")
	fmt.Fprintf(out, "User ID:  %s\n", opts.userID)
	fmt.Fprintf(out, "Tenant:   %s\n", t)
	fmt.Fprintf(out, "Expires:  %s\n", expires.Format(time.RFC3339))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Token:")
	fmt.Fprintln(out, token)
	return nil
}
