package messaging

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

// ErrNotConnected no hay conexión abierta con el broker.
var ErrNotConnected = errors.New("sin conexión a RabbitMQ")

// Channel lo que el publicador necesita de un canal AMQP (lo cumple *amqp.Channel).
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ChannelSource entrega el canal vigente (cambia tras una reconexión).
type ChannelSource interface {
	Channel() (Channel, error)
}

// Config conexión al broker.
type Config struct {
	URL        string
	Exchange   string
	RetryCount int
	RetryDelay time.Duration
}

// Client conexión RabbitMQ con exchange topic durable y reconexión automática.
type Client struct {
	cfg Config
	log zerolog.Logger

	mu        sync.RWMutex
	conn      *amqp.Connection
	channel   *amqp.Channel
	isClosing bool
}

// NewClient construye el cliente sin conectar.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	return &Client{cfg: cfg, log: log.With().Str("component", "rabbitmq").Logger()}
}

// Connect abre conexión y canal y declara el exchange, con hasta RetryCount intentos.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= c.cfg.RetryCount; attempt++ {
		lastErr = c.connectOnce()
		if lastErr == nil {
			c.log.Info().Str("exchange", c.cfg.Exchange).Msg("conectado a RabbitMQ")
			go c.watch(c.conn)
			return nil
		}
		c.log.Warn().Err(lastErr).Int("attempt", attempt).Int("max", c.cfg.RetryCount).Msg("conexión a RabbitMQ fallida")
		if attempt < c.cfg.RetryCount {
			time.Sleep(c.cfg.RetryDelay)
		}
	}
	return fmt.Errorf("conectar a RabbitMQ: %w", lastErr)
}

func (c *Client) connectOnce() error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declarar exchange %s: %w", c.cfg.Exchange, err)
	}
	c.conn, c.channel = conn, ch
	return nil
}

// watch reconecta cuando el broker cierra la conexión (salvo Close explícito).
func (c *Client) watch(conn *amqp.Connection) {
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	err, ok := <-closed
	if !ok {
		return
	}
	c.mu.RLock()
	closing := c.isClosing
	c.mu.RUnlock()
	if closing {
		return
	}
	c.log.Warn().Err(err).Msg("conexión a RabbitMQ perdida; reconectando")
	time.Sleep(c.cfg.RetryDelay)
	if err := c.Connect(); err != nil {
		c.log.Error().Err(err).Msg("reconexión a RabbitMQ fallida")
	}
}

// Channel devuelve el canal vigente o ErrNotConnected.
func (c *Client) Channel() (Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.channel == nil || c.isClosing {
		return nil, ErrNotConnected
	}
	return c.channel, nil
}

// Close cierra canal y conexión. Idempotente.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosing {
		return nil
	}
	c.isClosing = true
	var errs []error
	if c.channel != nil {
		errs = append(errs, c.channel.Close())
	}
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
	}
	return errors.Join(errs...)
}
