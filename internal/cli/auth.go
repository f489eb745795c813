package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// promptCredentials reads username and password from the command's input.
// Passwords are echoed; shopctl targets a demo backend, not production
// secrets.
func promptCredentials(cmd *cobra.Command, username string) (string, string, error) {
	reader := bufio.NewReader(cmd.InOrStdin())
	if username == "" {
		cmd.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		username = strings.TrimSpace(line)
	}
	cmd.Print("Password: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	password := strings.TrimSpace(line)

	if username == "" || password == "" {
		return "", "", errors.New("username and password are required")
	}
	return username, password, nil
}

func newLoginCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and save the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var username string
			if len(args) == 1 {
				username = args[0]
			}
			username, password, err := promptCredentials(cmd, username)
			if err != nil {
				return err
			}

			s, err := opts.client.Login(cmd.Context(), username, password)
			if err != nil {
				return userError(err)
			}
			if err := opts.sessions.Save(s); err != nil {
				return err
			}
			cmd.Printf("Logged in as %s (balance $%d)\n", s.Username, s.Balance)
			return nil
		},
	}
}

func newRegisterCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Create a new account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var username string
			if len(args) == 1 {
				username = args[0]
			}
			username, password, err := promptCredentials(cmd, username)
			if err != nil {
				return err
			}

			if err := opts.client.Register(cmd.Context(), username, password); err != nil {
				return userError(err)
			}
			cmd.Printf("Registered %s. Run %q to start shopping.\n", username, "shopctl login "+username)
			return nil
		},
	}
}

func newLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.sessions.Clear(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			cmd.Println("Logged out.")
			return nil
		},
	}
}
