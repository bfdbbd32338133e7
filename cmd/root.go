package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vocali-backend",
	Short: "Authentication and audio upload backend",
	Long:  `Backend service providing user signup, email confirmation, signin, password reset and per-user audio file uploads.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
