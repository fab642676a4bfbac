package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cazehq/bizcon/internal/entity"
)

// InterestClassifier is the downstream consumer of terminated transcripts.
type InterestClassifier interface {
	Classify(ctx context.Context, leadID string, transcript []entity.Message) error
}

type Worker struct {
	Channel    *amqp.Channel
	Classifier InterestClassifier
}

func NewWorker(ch *amqp.Channel, classifier InterestClassifier) *Worker {
	return &Worker{Channel: ch, Classifier: classifier}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("[worker] failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload ClassificationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[worker] invalid JSON, dropping: %s", err)
				d.Nack(false, false)
				continue
			}

			log.Printf("[worker] classifying transcript for lead %s (%d turns)", payload.LeadID, len(payload.Transcript))

			if err := w.Classifier.Classify(context.Background(), payload.LeadID, payload.Transcript); err != nil {
				log.Printf("[worker] classification failed for lead %s: %s", payload.LeadID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf("[worker] waiting for classification jobs on '%s'", queueName)
	<-forever
}
