package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Set the theme preference",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"dark", "light"},
	RunE:      runTheme,
}

var avatarCmd = &cobra.Command{
	Use:   "avatar [image-file]",
	Short: "Set the profile avatar from an image file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAvatar,
}

func runTheme(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := requireProfile(a); err != nil {
		return err
	}

	dark := args[0] == "dark"
	if err := a.Profiles.UpdateTheme(cmd.Context(), dark); err != nil {
		return nil
	}

	fmt.Printf("✅ Theme set to %s\n", args[0])
	return nil
}

func runAvatar(cmd *cobra.Command, args []string) error {
	a, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := requireProfile(a); err != nil {
		return err
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(args[0]))
	if err := a.Profiles.UpdateAvatar(cmd.Context(), image, mimeType); err != nil {
		return nil
	}

	fmt.Println("✅ Avatar updated")
	return nil
}
