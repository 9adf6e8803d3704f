/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bmw-wellness/apiserver/config"
	"github.com/bmw-wellness/apiserver/internal/db"
	"github.com/bmw-wellness/apiserver/internal/logging"
	"github.com/bmw-wellness/apiserver/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the wellness backend server",
	Long: `Starts the wellness backend server. Usage:

	wellness server
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := server.New(ctx, cfg, logger)
		if err != nil {
			logger.WithError(err).Error("failed to start server")
			os.Exit(1)
		}

		logger.WithFields(logrus.Fields{
			"database": db.Describe(cfg.Database.Driver),
			"port":     cfg.ServerPort,
		}).Info("starting wellness server")

		if err := srv.Start(ctx); err != nil {
			logger.WithError(err).Error("server error")
			os.Exit(1)
		}
		logger.Info("server stopped")
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
