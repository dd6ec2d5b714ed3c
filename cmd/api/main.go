package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Qu4nh/AI-Life-Coach/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lifecoach",
		Short: "AI Life Coach API Server",
		Long:  `AI Life Coach turns an onboarding conversation into a personal roadmap of daily tasks and re-plans it around the user's energy and fixed commitments.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
