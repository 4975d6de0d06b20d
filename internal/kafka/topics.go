package kafka

import (
	"log"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// Topics published by the eventx service. External observers (refund
// handling, notifications) react to these; the engine itself never consumes
// them.
const (
	TopicTicketMinted   = "eventx.ticket.minted"
	TopicEventCancelled = "eventx.event.cancelled"
)

// TicketMintedMessage is published after a successful ticket sale.
type TicketMintedMessage struct {
	TicketID     string `json:"ticket_id"`
	EventID      string `json:"event_id"`
	Owner        string `json:"owner"`
	PurchaseDate int64  `json:"purchase_date"`
}

// EventCancelledMessage is published after an event is cancelled. It carries
// enough for a refund observer to act without reading the store.
type EventCancelledMessage struct {
	EventID     string `json:"event_id"`
	Title       string `json:"title"`
	TicketsSold uint32 `json:"tickets_sold"`
	TicketPrice int64  `json:"ticket_price"`
}

// EnsureTopicsExist creates the given topics if they are not present yet.
func EnsureTopicsExist(brokers []string, topics []string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		err = controllerConn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil {
			if err.Error() == "kafka server: topic already exists" {
				continue
			}
			log.Printf("Error creating topic %s: %v", topic, err)
		} else {
			log.Printf("Created topic: %s", topic)
		}
	}

	// Give the brokers a moment to settle the new topics.
	time.Sleep(1 * time.Second)
	return nil
}
