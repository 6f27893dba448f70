package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-task-tracker/internal/app"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the http server and the maintenance scheduler",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			serve()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			bootstrap()
			defer app.DisconnectPostgres()

			app.MustMigrate()
		},
	}

	rootCmd := &cobra.Command{
		Use:          "go-task-tracker",
		Short:        "Task tracker with analytics",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Run: func(*cobra.Command, []string) {
			serve()
		},
	}
	rootCmd.AddCommand(serveCmd, migrateCmd)
	return rootCmd
}

func bootstrap() {
	app.InitDefaultLogger()
	app.MustReadConfig()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
}

func serve() {
	bootstrap()
	defer app.DisconnectPostgres()

	app.MustInitServices()
	app.MustStartScheduler()

	app.MustListenAndServeHTTP()
}
