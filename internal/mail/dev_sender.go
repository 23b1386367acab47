package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// DevSender implements Sender for local development. Messages are
// logged instead of delivered, so flows that depend on mail still run
// against an unconfigured SMTP account.
type DevSender struct{}

func NewDevSender() *DevSender {
	return &DevSender{}
}

func (d *DevSender) Send(_ context.Context, msg Message) (string, error) {
	messageID := fmt.Sprintf("<%s@dev.local>", uuid.New().String())
	slog.Info("simulated email",
		"to", msg.To,
		"subject", msg.Subject,
		"message_id", messageID,
	)
	return messageID, nil
}
