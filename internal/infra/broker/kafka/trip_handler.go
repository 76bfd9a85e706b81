package kafka

import (
	"context"
	"log/slog"

	"github.com/IBM/sarama"

	"stayhub/internal/app/projection"
)

// TripProjectionHandler routes booking events into the trip read model. The
// applier is idempotent, so redelivered messages are safe to reprocess.
type TripProjectionHandler struct {
	Applier       *projection.Applier
	BookingsTopic string
	StatusTopic   string
	Logger        *slog.Logger
}

func (h *TripProjectionHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var err error
	switch msg.Topic {
	case h.BookingsTopic:
		err = h.Applier.ApplyCreated(ctx, msg.Value)
	case h.StatusTopic:
		err = h.Applier.ApplyStatus(ctx, msg.Value)
	default:
		if h.Logger != nil {
			h.Logger.Warn("message on unexpected topic", "topic", msg.Topic)
		}
		return nil
	}
	if err != nil && h.Logger != nil {
		h.Logger.Error("trip projection apply failed",
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "error", err)
	}
	return err
}

var _ MessageHandler = (*TripProjectionHandler)(nil)
