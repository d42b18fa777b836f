package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/slotwatch/internal/logger"
	"github.com/pfrederiksen/slotwatch/internal/report"
)

// Notifier defines the interface for delivering a scan report
type Notifier interface {
	// Name identifies the channel in logs and errors.
	Name() string
	// Notify delivers the message.
	Notify(ctx context.Context, m report.Message) error
}

// DeliveryError reports a message a channel did not accept.
type DeliveryError struct {
	Channel    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *DeliveryError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s delivery failed (status %d): %v", e.Channel, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s delivery failed (status %d)", e.Channel, e.StatusCode)
	default:
		return fmt.Sprintf("%s delivery failed: %v", e.Channel, e.Err)
	}
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Dispatch sends m through every notifier in order. A failing channel does
// not stop the others; all failures are logged and returned joined.
func Dispatch(ctx context.Context, notifiers []Notifier, m report.Message, log *logger.Logger) error {
	var errs []error
	for _, n := range notifiers {
		if err := n.Notify(ctx, m); err != nil {
			logger.IncrCounter("notify.failed")
			log.Error("notification failed", logger.Fields{"channel": n.Name()}, err)
			errs = append(errs, err)
			continue
		}
		logger.IncrCounter("notify.sent")
		log.Info("notification sent", logger.Fields{"channel": n.Name()})
	}
	return errors.Join(errs...)
}
