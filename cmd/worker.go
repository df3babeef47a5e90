package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/notification"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker processes",
	Long:  `Start and manage background workers such as the notification dispatcher.`,
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Start notification worker",
	Long:  `Start the notification worker that dispatches leave event notifications`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

func startNotificationWorker() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"), cfg.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	notifier := notification.NewService(notification.NewLogSender(lg), lg)
	notifier.Register(eventBus)

	lg.Info("notification worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	lg.Info("received signal, shutting down notification worker", "signal", sig)
	lg.Info("notification worker shutdown complete")
}

func init() {
	workerCmd.AddCommand(notificationWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
