/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bmw-wellness/apiserver/config"
	"github.com/bmw-wellness/apiserver/internal/logging"
	"github.com/bmw-wellness/apiserver/internal/mq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var eventsChannel string

// eventsCmd groups commands that work with domain events.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect domain events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Log every event published on a channel",
	Long: `Subscribes to a domain event channel on the broker selected by MQ_BACKEND
and logs each message until interrupted. Usage:

	wellness events tail --channel wellness.score.recorded
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		logger := logging.New(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("events are disabled; set MQ_BACKEND")
		}
		defer broker.Close()

		log := logger.WithField("channel", eventsChannel)
		log.Info("tailing events")

		err = broker.Subscribe(ctx, eventsChannel, func(ctx context.Context, msg mq.Message) error {
			log.WithFields(logrus.Fields{
				"message_id": msg.ID,
				"attributes": msg.Attributes,
			}).Info(string(msg.Data))
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)

	eventsTailCmd.Flags().StringVar(&eventsChannel, "channel", mq.ChannelScoreRecorded, "event channel to subscribe to")
}
