package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/client"
)

type credentialOptions struct {
	server   string
	email    string
	password string
}

func (o *credentialOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.server, "server", "", "server URL (default: from config or http://localhost:8080)")
	cmd.Flags().StringVar(&o.email, "email", "", "account email")
	cmd.Flags().StringVar(&o.password, "password", "", "account password (read from stdin when omitted)")
}

func newRegisterCmd() *cobra.Command {
	var opts credentialOptions

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCredentials(cmd, opts, true)
		},
	}
	opts.bind(cmd)
	return cmd
}

func newLoginCmd() *cobra.Command {
	var opts credentialOptions

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store an access token",
		Long:  "Logs in with email and password and stores the access token for cloud plan and favorite commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCredentials(cmd, opts, false)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runCredentials(cmd *cobra.Command, opts credentialOptions, register bool) error {
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	email := strings.TrimSpace(opts.email)
	if email == "" {
		var err error
		if email, err = prompt(out, in, "Email: "); err != nil {
			return err
		}
	}
	password := opts.password
	if password == "" {
		var err error
		if password, err = prompt(out, in, "Password: "); err != nil {
			return err
		}
	}
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}

	serverURL := opts.server
	if serverURL == "" {
		serverURL = getServerURL()
	}
	c := client.New(serverURL, "")

	var (
		resp *client.TokenResponse
		err  error
	)
	if register {
		resp, err = c.Register(cmd.Context(), email, password)
	} else {
		resp, err = c.Login(cmd.Context(), email, password)
	}
	if err != nil {
		return err
	}

	err = updateConfig(func(cfg *CLIConfig) {
		cfg.Session = Session{AccessToken: resp.AccessToken, Email: resp.User.Email}
		if opts.server != "" {
			cfg.ServerURL = opts.server
		}
	})
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if isJSON() {
		return printJSON(out, resp.User)
	}
	if register {
		fmt.Fprintf(out, "✓ Account created. Logged in as %s\n", resp.User.Email)
	} else {
		fmt.Fprintf(out, "✓ Logged in as %s\n", resp.User.Email)
	}
	return nil
}

// prompt writes label and reads one trimmed line.
func prompt(out io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
