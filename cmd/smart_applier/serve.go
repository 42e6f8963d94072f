package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/smart-applier/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for profiles, the job corpus, matching, skill-gap analysis and tailoring.`,
	RunE:  runServe,
}

var (
	servePort      int
	serveWhitelist string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to config server.port)")
	serveCmd.Flags().StringVar(&serveWhitelist, "rate-whitelist", "", "Comma-separated client IPs exempt from rate limiting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	port := app.cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	srv := server.New(app.svc, server.Config{
		Port:           port,
		RateLimit:      app.cfg.Server.RateLimit,
		RateBurst:      app.cfg.Server.RateBurst,
		RateWhitelist:  strings.TrimSpace(serveWhitelist),
		AllowedOrigins: app.cfg.Server.AllowedOrigins,
		DefaultTopK:    app.cfg.TopK,
		DefaultTopN:    app.cfg.TopN,
		Logger:         app.logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}
