package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginWithToken bool

var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Create your profile",
	Long: `Create a profile under the current identity. With a remote backend
configured this overwrites the remote profile document; otherwise the
profile lives in on-device storage.

Examples:
  blobtask login Ana
  blobtask login --with-token`,
	RunE: runLogin,
}

var logoutYes bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete your profile and return to the login state",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the resolved identity and profile",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().BoolVar(&loginWithToken, "with-token", false, "Prompt for a bootstrap auth token before the handshake")
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runLogin(cmd *cobra.Command, args []string) error {
	// The token is a secret, so it is read without echo and handed to
	// the app directly rather than via BLOBTASK_AUTH_TOKEN.
	var token string
	if loginWithToken {
		fmt.Print("Bootstrap token: ")
		tokenBytes, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		token = strings.TrimSpace(string(tokenBytes))
	}

	a, err := startAppWithToken(cmd, token)
	if err != nil {
		return err
	}
	defer a.Close()

	name := strings.Join(args, " ")
	if strings.TrimSpace(name) == "" {
		fmt.Print("Name: ")
		reader := bufio.NewReader(os.Stdin)
		name, _ = reader.ReadString('\n')
	}

	if strings.TrimSpace(name) == "" {
		// Empty submissions are dropped without an error.
		return nil
	}

	if err := a.Profiles.Login(cmd.Context(), name); err != nil {
		return nil
	}

	fmt.Printf("✅ Logged in as %s (%s)\n", strings.TrimSpace(name), a.Identity.Current())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Tree.Profile() == nil {
		fmt.Println("Not logged in.")
		return nil
	}

	if !logoutYes {
		fmt.Print("Delete your profile? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := a.Profiles.Logout(cmd.Context()); err != nil {
		return nil
	}

	fmt.Println("✅ Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id := a.Identity.Current()
	mode := "remote"
	if id.IsLocal() {
		mode = "local"
	}

	fmt.Printf("Identity: %s (%s mode)\n", id, mode)
	if p := a.Tree.Profile(); p != nil {
		theme := "light"
		if p.Theme {
			theme = "dark"
		}
		fmt.Printf("Profile:  %s, %s theme, since %s\n", p.Name, theme, p.CreatedAt.Format("2006-01-02"))
	} else {
		fmt.Println("Profile:  none (run 'blobtask login <name>')")
	}
	return nil
}
