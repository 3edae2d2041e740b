// Package notify hands outgoing messages to a downstream mailer.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	apiErrors "github.com/dtroode/accountd/internal/apierrors"
	"github.com/dtroode/accountd/internal/logger"
	"github.com/dtroode/accountd/internal/model"
)

// prepare checks the required fields and fills From.
func prepare(msg model.Message, from string) (model.Message, error) {
	if msg.To == "" {
		return msg, apiErrors.NewErrInvalidArgument(`Expecting the "to" property to be set on options.`)
	}
	if msg.Subject == "" {
		return msg, apiErrors.NewErrInvalidArgument(`Expecting the "subject" property to be set on options.`)
	}
	if msg.Template == "" {
		return msg, apiErrors.NewErrInvalidArgument(`Expecting the "template" property to be set on options.`)
	}
	if msg.From == "" {
		msg.From = from
	}
	if msg.Context == nil {
		msg.Context = map[string]any{}
	}
	return msg, nil
}

var (
	_ model.Notifier = (*LogNotifier)(nil)
	_ model.Notifier = (*Outbox)(nil)
)

// LogNotifier only logs messages. Used when no outbox is configured.
type LogNotifier struct {
	from   string
	logger *logger.Logger
}

func NewLogNotifier(from string, logger *logger.Logger) *LogNotifier {
	return &LogNotifier{from: from, logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, msg model.Message) error {
	msg, err := prepare(msg, n.from)
	if err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "Notifier: message accepted",
		"to", msg.To, "subject", msg.Subject, "template", msg.Template)
	return nil
}

// Envelope is what the outbox stores for the mailer to pick up.
type Envelope struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Message   model.Message `json:"message"`
}

// Outbox writes each message as a JSON envelope to object storage under
// outbox/YYYY/MM/DD/<id>.json.
type Outbox struct {
	storage model.Storage
	from    string
	logger  *logger.Logger
	now     func() time.Time
}

func NewOutbox(storage model.Storage, from string, logger *logger.Logger) *Outbox {
	return &Outbox{
		storage: storage,
		from:    from,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (o *Outbox) Send(ctx context.Context, msg model.Message) error {
	msg, err := prepare(msg, o.from)
	if err != nil {
		return err
	}

	env := Envelope{
		ID:        uuid.NewString(),
		CreatedAt: o.now(),
		Message:   msg,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	key := path.Join("outbox", env.CreatedAt.Format("2006/01/02"), env.ID+".json")
	if err := o.storage.Put(ctx, key, body, "application/json"); err != nil {
		return fmt.Errorf("failed to store envelope: %w", err)
	}

	o.logger.DebugContext(ctx, "Notifier: envelope stored", "key", key, "template", msg.Template)
	return nil
}
