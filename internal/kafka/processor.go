package kafka

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/vulnwatch/vulnwatch-backend/config"
	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/events/modules/records"
	"github.com/vulnwatch/vulnwatch-backend/internal/services"
)

// RunEventProcessor starts the record batch consumer in the background.
// It verifies broker reachability first so a dead broker surfaces at
// startup instead of as a silently idle reader.
func RunEventProcessor(ctx context.Context, db database.DBConnection, cfg config.KafkaConfig) error {
	username := os.Getenv("KAFKA_API_KEY")
	password := os.Getenv("KAFKA_API_SECRET")

	var dialer *kafka.Dialer

	// SASL/TLS only when credentials are provided; managed Kafka
	// requires TLS alongside SASL/PLAIN.
	if username != "" && password != "" {
		mechanism := plain.Mechanism{
			Username: username,
			Password: password,
		}
		dialer = &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: mechanism,
			TLS:           &tls.Config{},
		}
	} else {
		dialer = &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
		}
	}

	var conn *kafka.Conn
	var err error

	for i := 1; i <= 3; i++ {
		log.Printf("Kafka connection attempt %d/3...", i)
		conn, err = dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
		if err == nil {
			conn.Close()
			break
		}
		if i < 3 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return err
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	go func() {
		defer reader.Close()
		service := &services.RecordService{DB: db}

		log.Println("Kafka event processor started. Listening for record batch events...")

		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := reader.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					continue
				}
				if err := records.HandleRecordBatchCreated(ctx, msg.Value, service); err != nil {
					log.Printf("Failed to process record batch event: %v", err)
				}
			}
		}
	}()

	return nil
}
