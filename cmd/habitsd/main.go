package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// set at build time
var version = "dev"

var (
	configPath string
	configDir  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "habitsd",
		Short: "Habit tracker GraphQL server",
		// 不带子命令时直接启动服务
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory with base.yaml and <env>.yaml layers")

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "habitsd", version)
		},
	}
}
