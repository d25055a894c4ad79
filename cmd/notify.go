package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/queue"
)

func newNotifyWorkerCmd() *cobra.Command {
	var logPath string

	cmd := &cobra.Command{
		Use:   "notify-worker",
		Short: "Consume reservation notifications and deliver them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			err := queue.StartNotificationConsumer(ctx, queue.ConsumerConfig{
				URL:     config.LoadRabbitURL(),
				LogPath: logPath,
				Logger:  zap.L(),
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&logPath, "log-file", "logs/notifications.log", "file delivered notifications are appended to")
	return cmd
}
