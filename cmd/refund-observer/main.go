// The refund observer is the external party the engine's cancellation
// semantics point at: cancelling an event only flips its state, and whoever
// owes refunds learns about it from the event.cancelled stream. This binary
// consumes that stream and records the obligation; actual settlement hooks in
// where the log line is.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"eventx/internal/config"
	"eventx/internal/kafka"
	"eventx/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	appLog := logger.NewLogger("refund-observer")
	defer appLog.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, kafka.TopicEventCancelled, cfg.Kafka.GroupID)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		cancel()
	}()

	appLog.LogKafka("CONSUME", kafka.TopicEventCancelled, "refund observer started")

	err := consumer.StartEventCancelled(ctx, func(msg kafka.EventCancelledMessage) {
		appLog.LogEvent("REFUND_DUE", msg.EventID, fmt.Sprintf(
			"%q cancelled with %d tickets sold at %d each", msg.Title, msg.TicketsSold, msg.TicketPrice))
	})
	if err != nil && err != context.Canceled {
		appLog.Error("KAFKA", "consumer stopped: "+err.Error())
	}

	appLog.Info("KAFKA", "refund observer shutdown complete")
}
