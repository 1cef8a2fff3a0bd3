// Package worker consumes reminder jobs from RabbitMQ and delivers them by
// email.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
	"github.com/oksasatya/birthday-reminder-api/pkg/mailer"
	mailtpl "github.com/oksasatya/birthday-reminder-api/pkg/mailer/templates"
)

const (
	defaultSendTimeout  = 15 * time.Second
	defaultMaxAttempts  = 5
	defaultRetryBackoff = 2 * time.Second
	maxRetryBackoff     = time.Minute

	// Set by RabbitMQ on quorum queue redeliveries.
	deliveryCountHeader = "x-delivery-count"
)

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	Ack Outcome = iota
	// Reject drops a message that can never succeed.
	Reject
	// Requeue returns the message for another attempt.
	Requeue
)

var errBadJob = errors.New("reminder job missing recipient or friend")

type EmailWorker struct {
	Sender      mailer.Sender
	AppName     string
	AppURL      string
	SendTimeout time.Duration
	Logger      *logrus.Logger

	// MaxAttempts caps deliveries of one message; the last failure drops it.
	MaxAttempts int
	// RetryBackoff is the wait before the first requeue, doubled per attempt.
	RetryBackoff time.Duration
}

// Handle renders and sends one job.
func (w *EmailWorker) Handle(ctx context.Context, body []byte) Outcome {
	var job mailer.ReminderJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.warn(err, "bad message", nil)
		return Reject
	}
	if job.To == "" || job.FriendName == "" {
		w.warn(errBadJob, "bad message", logrus.Fields{"friend_id": job.FriendID})
		return Reject
	}
	if job.Template == "" {
		job.Template = mailtpl.BirthdayReminder
	}

	data := mailtpl.NewReminderData(job, mailtpl.WithAppName(w.AppName), mailtpl.WithAppURL(w.AppURL))
	subject, text, html, err := mailtpl.Render(job.Template, data)
	if err != nil {
		w.warn(err, "render failed", logrus.Fields{"template": job.Template, "friend_id": job.FriendID})
		return Reject
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.warn(err, "send failed", logrus.Fields{"friend_id": job.FriendID})
		return Requeue
	}
	if w.Logger != nil {
		helpers.LogInfo(w.Logger, "reminder sent", logrus.Fields{"friend_id": job.FriendID, "user_id": job.UserID})
	}
	return Ack
}

// Run settles deliveries until the channel closes or ctx is done.
func (w *EmailWorker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			w.settle(ctx, msg, w.Handle(ctx, msg.Body))
		}
	}
}

func (w *EmailWorker) settle(ctx context.Context, msg amqp.Delivery, out Outcome) {
	prior := deliveryCount(msg.Headers)
	out, wait := w.retryPolicy(out, prior)
	switch out {
	case Ack:
		_ = msg.Ack(false)
	case Reject:
		_ = msg.Nack(false, false)
	case Requeue:
		// Holding the message delays its redelivery.
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
		_ = msg.Nack(false, true)
	}
}

// retryPolicy turns a Requeue into a Reject once the message has been
// delivered MaxAttempts times, and otherwise returns the backoff to wait
// before requeueing. prior is the number of earlier deliveries.
func (w *EmailWorker) retryPolicy(out Outcome, prior int) (Outcome, time.Duration) {
	if out != Requeue {
		return out, 0
	}
	limit := w.MaxAttempts
	if limit <= 0 {
		limit = defaultMaxAttempts
	}
	if prior+1 >= limit {
		if w.Logger != nil {
			w.Logger.WithField("attempts", prior+1).Error("reminder dropped after repeated send failures")
		}
		return Reject, 0
	}
	wait := w.RetryBackoff
	if wait <= 0 {
		wait = defaultRetryBackoff
	}
	for i := 0; i < prior && wait < maxRetryBackoff; i++ {
		wait *= 2
	}
	if wait > maxRetryBackoff {
		wait = maxRetryBackoff
	}
	return Requeue, wait
}

func deliveryCount(h amqp.Table) int {
	switch v := h[deliveryCountHeader].(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case int:
		return v
	}
	return 0
}

func (w *EmailWorker) warn(err error, msg string, fields logrus.Fields) {
	if w.Logger == nil {
		return
	}
	helpers.LogWarn(w.Logger, msg, err, fields)
}
