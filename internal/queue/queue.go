// Package queue wires the ingestion pipeline to RabbitMQ. Documents are
// processed one at a time (prefetch 1); failed jobs go through a delayed
// retry queue and end up in a dead-letter queue after too many attempts.
package queue

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/polok-dev98/agentpro/internal/util"
	"github.com/polok-dev98/agentpro/pkg/logger"
)

const (
	// IngestQueue carries document ingestion jobs.
	IngestQueue = "ingest_queue"

	retryTTL   = int32(10000)
	maxRetries = 10
)

// Queues lists every work queue the worker consumes.
var Queues = []string{IngestQueue}

// Init connects to RabbitMQ using the RABBITMQ_* environment.
func Init() (*amqp091.Connection, error) {
	connURL := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		util.GetEnv("RABBITMQ_USER"),
		util.GetEnv("RABBITMQ_PASSWORD"),
		util.GetEnv("RABBITMQ_HOST"),
		util.GetEnv("RABBITMQ_PORT"),
	)

	conn, err := amqp091.Dial(connURL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return conn, nil
}

// SetupQueues declares each work queue together with its retry queue and
// dead-letter queue. The retry queue holds messages for a short TTL and
// dead-letters them back onto the work queue.
func SetupQueues(ch *amqp091.Channel, queueNames []string) error {
	for _, name := range queueNames {
		_, err := ch.QueueDeclare(name, true, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", name, err)
		}

		_, err = ch.QueueDeclare(name+"_dlq", true, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("declare queue %s_dlq: %w", name, err)
		}

		_, err = ch.QueueDeclare(name+"_retry", true, false, false, false, amqp091.Table{
			"x-message-ttl":             retryTTL,
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": name,
		})
		if err != nil {
			return fmt.Errorf("declare queue %s_retry: %w", name, err)
		}
	}
	return nil
}

// PublishFIFO publishes a persistent message to the named queue.
func PublishFIFO(ch *amqp091.Channel, queueName string, data []byte) error {
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return err
	}

	return ch.Publish("", q.Name, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
}

// HandleProcessingError reroutes a failed delivery: back through the retry
// queue while attempts remain, to the dead-letter queue afterwards.
func HandleProcessingError(ch *amqp091.Channel, msg amqp091.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	if retries >= maxRetries {
		dlqName := queueName + "_dlq"
		logger.Info("sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish("", dlqName, false, false, amqp091.Publishing{
			ContentType: "application/json",
			Body:        msg.Body,
			Headers:     msg.Headers,
		})
		if pubErr != nil {
			logger.Error("failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	headers := msg.Headers
	if headers == nil {
		headers = amqp091.Table{}
	}
	headers["x-retries"] = int32(retries + 1)

	retryName := queueName + "_retry"
	pubErr := ch.Publish("", retryName, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        msg.Body,
		Headers:     headers,
	})
	if pubErr != nil {
		logger.Error("failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
