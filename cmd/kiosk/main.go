package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/printmate/printmate/cmd/kiosk/cmd"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "kiosk",
		Short:        "Terminal client for PrintMate recent files and printing",
		SilenceUsage: true,
	}

	opts := cmd.BindFlags(rootCmd)
	rootCmd.AddCommand(cmd.RecentsCmd(opts))
	rootCmd.AddCommand(cmd.PrintCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
