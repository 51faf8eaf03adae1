package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kmadriaga/resort-booking-api/internal/mail"
)

// StartConsumer connects to RabbitMQ, declares the booking.events queue and
// consumes it forever.  Each event is appended to logs/booking.log and, when
// the payload carries a customer email, forwarded to the mailer.  The
// function runs a reconnect loop with exponential backoff and never returns;
// processing errors reject the message without requeueing so a poison
// payload cannot wedge the queue.
func StartConsumer(m *mail.Mailer) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(BrokerURL())
		if err != nil {
			log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, m); err != nil {
			log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, m *mail.Mailer) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleEvent(d.Body, m); err != nil {
			log.Printf("booking-consumer: handle event failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleEvent(body []byte, m *mail.Mailer) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := appendAuditLine(ev); err != nil {
		return err
	}

	if ev.CustomerEmail == "" {
		return nil
	}
	switch ev.Kind {
	case KindConfirmed:
		if err := m.SendBookingConfirmed(ev.CustomerEmail, ev.CustomerName, ev.Resource, ev.Summary); err != nil {
			// delivery failure is logged, not retried; the audit line already landed
			log.Printf("booking-consumer: confirmation mail to %s failed: %v", ev.CustomerEmail, err)
		}
	case KindCancelled:
		if err := m.SendBookingCancelled(ev.CustomerEmail, ev.CustomerName, ev.Resource, ev.Summary); err != nil {
			log.Printf("booking-consumer: cancellation mail to %s failed: %v", ev.CustomerEmail, err)
		}
	}
	return nil
}

func appendAuditLine(ev BookingEvent) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "booking.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Booking %s | resource=%s | booking_id=%d | customer=%q | total=%.2f | %s\n",
		ev.OccurredAt, ev.Kind, ev.Resource, ev.BookingID, ev.CustomerName, ev.TotalPrice, ev.Summary)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
