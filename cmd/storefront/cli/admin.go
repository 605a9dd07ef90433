package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shopit/storefront/internal/core/domain"
)

const (
	defaultAdminEmail = "admin@shopit.com"
	defaultAdminName  = "Administrator"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
		Long:  "Seed the first administrator or promote an existing account to admin.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminPromoteCmd())

	return cmd
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		email    string
		password string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin user unless one exists for the email",
		Example: `  storefront admin create --password secret1
  storefront admin create --email ops@shopit.com --name Ops  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pw, err := promptPassword(cmd.OutOrStdout())
				if err != nil {
					return err
				}
				password = pw
			}
			return runAdminCreate(cmd.Context(), cmd.OutOrStdout(), email, password, name)
		},
	}

	cmd.Flags().StringVar(&email, "email", defaultAdminEmail, "Admin email address")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	cmd.Flags().StringVar(&name, "name", defaultAdminName, "Admin display name")

	return cmd
}

func runAdminCreate(ctx context.Context, out io.Writer, email, password, name string) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	acct, created, err := st.accountService().EnsureAdmin(ctx, name, strings.TrimSpace(email), password)
	if err != nil {
		return describe(err)
	}
	if !created {
		fmt.Fprintf(out, "Admin user already exists! (%s, role %s)\n", acct.Email, acct.Role)
		return nil
	}
	fmt.Fprintf(out, "Created admin user %q (id %s)\n", acct.Email, acct.ID)
	return nil
}

// ---------- admin promote ----------

func newAdminPromoteCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:     "promote",
		Short:   "Grant the admin role to an existing account",
		Example: `  storefront admin promote --email jane@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminPromote(cmd.Context(), cmd.OutOrStdout(), email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runAdminPromote(ctx context.Context, out io.Writer, email string) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	acct, err := st.accountService().PromoteByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return fmt.Errorf("no account for %q, run `storefront admin create` instead", email)
		}
		return describe(err)
	}
	fmt.Fprintf(out, "%s is now %s\n", acct.Email, acct.Role)
	return nil
}

func promptPassword(out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--password is required when stdin is not a terminal")
	}

	fmt.Fprint(out, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(out, "Confirm password: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(pw) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	return string(pw), nil
}

// describe turns a domain error into its user-facing message for the
// terminal while keeping internal causes visible.
func describe(err error) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindInternal {
		return errors.New(de.Message)
	}
	return err
}
