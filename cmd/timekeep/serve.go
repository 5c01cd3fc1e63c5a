package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/timekeep/timekeep/internal/api/handler"
	"github.com/timekeep/timekeep/internal/config"
	"github.com/timekeep/timekeep/internal/logging"
	"github.com/timekeep/timekeep/internal/server"
	"github.com/timekeep/timekeep/internal/service"
	"github.com/timekeep/timekeep/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync server",
	Long:  `Run the HTTP sync server until interrupted. Shuts down gracefully on SIGINT/SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		bind, _ := cmd.Flags().GetString("bind")
		dbPath, _ := cmd.Flags().GetString("db")
		runServe(bind, dbPath)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("bind", "", "Address to bind the server to (host:port)")
	serveCmd.Flags().String("db", "", "Path to the SQLite database file")
}

func runServe(bind, dbPath string) {
	log := logging.Init(handler.ServiceName)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	// Flags override the resolved config.
	addr := cfg.Addr()
	if bind != "" {
		addr = bind
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		// Serving requests against an unmigrated table is not an option.
		log.WithError(err).Fatal("failed to open database")
	}

	svc := service.NewTaskService(store.NewTaskRepository(db))

	srv := server.New(addr, db, svc, log)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server error")
	}
}
