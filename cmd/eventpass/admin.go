package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"eventpass/internal/adapters/auth"
	"eventpass/internal/repository/postgres"
	"eventpass/internal/services"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var adminCmd = &cobra.Command{
	Use:     "admin",
	Short:   "Manage back-office accounts",
	GroupID: "admin",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	Long: `Create an admin account. The password is read from the terminal without echo,
or from the first line of stdin when stdin is not a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		if email == "" {
			return fmt.Errorf("--email is required")
		}

		password, err := readPassword(cmd.ErrOrStderr(), os.Stdin)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		svc := services.NewAuthService(
			postgres.NewAdminRepository(a.db),
			postgres.NewAdminSessionRepository(a.db),
			a.docs,
			auth.NewBcryptHasher(bcrypt.DefaultCost),
			nil,
			nil,
			a.cfg.JWTExpiry,
		)
		admin, err := svc.CreateAdmin(cmd.Context(), email, name, password)
		if err != nil {
			return fmt.Errorf("creating admin: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", admin.Email, admin.ID)
		return nil
	},
}

// readPassword prompts twice on a terminal; otherwise it reads one line from in.
func readPassword(prompt io.Writer, in *os.File) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(prompt, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	fmt.Fprint(prompt, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}

func init() {
	adminCreateCmd.Flags().String("email", "", "admin email address (required)")
	adminCreateCmd.Flags().String("name", "", "display name")

	adminCmd.AddCommand(adminCreateCmd)
}
