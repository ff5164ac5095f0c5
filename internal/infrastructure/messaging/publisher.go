package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/stockmaster/internal/application/inventory"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

var _ inventory.EventPublisher = (*Publisher)(nil)

// Publisher publica eventos de documentos en el exchange topic con entrega persistente.
// Routing key: <tipo de evento>.<tipo de documento>, p. ej. document.completed.delivery.
type Publisher struct {
	source   ChannelSource
	exchange string
	retries  int
	backoff  time.Duration
	log      zerolog.Logger
}

// NewPublisher construye el publicador. retries es el número total de intentos (mínimo 1).
func NewPublisher(source ChannelSource, exchange string, retries int, log zerolog.Logger) *Publisher {
	if retries <= 0 {
		retries = 1
	}
	return &Publisher{
		source:   source,
		exchange: exchange,
		retries:  retries,
		backoff:  time.Second,
		log:      log.With().Str("component", "publisher").Logger(),
	}
}

// RoutingKey clave de ruteo de un evento.
func RoutingKey(event inventory.DocumentEvent) string {
	return fmt.Sprintf("%s.%s", event.Type, event.Kind)
}

// Publish intenta publicar hasta retries veces con espera lineal entre intentos.
func (p *Publisher) Publish(ctx context.Context, event inventory.DocumentEvent) error {
	msg, err := toPublishing(event)
	if err != nil {
		return err
	}
	key := RoutingKey(event)
	var lastErr error
	for attempt := 1; attempt <= p.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("publicar %s: %w", key, err)
		}
		if lastErr = p.publishOnce(key, msg); lastErr == nil {
			p.log.Debug().Str("routing_key", key).Str("document_id", event.DocumentID).Msg("evento publicado")
			return nil
		}
		p.log.Warn().Err(lastErr).Int("attempt", attempt).Str("routing_key", key).Msg("publicación fallida")
		if attempt == p.retries {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("publicar %s: %w", key, ctx.Err())
		case <-time.After(p.backoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("publicar %s (%d intentos): %w", key, p.retries, lastErr)
}

func (p *Publisher) publishOnce(key string, msg amqp.Publishing) error {
	ch, err := p.source.Channel()
	if err != nil {
		return err
	}
	return ch.Publish(p.exchange, key, false, false, msg)
}

func toPublishing(event inventory.DocumentEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("serializar evento: %w", err)
	}
	headers := amqp.Table{
		"event_type":    event.Type,
		"document_id":   event.DocumentID,
		"document_kind": string(event.Kind),
		"warehouse_id":  event.WarehouseID,
	}
	if event.Reference != "" {
		headers["reference"] = event.Reference
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Headers:      headers,
		Body:         body,
	}, nil
}
