// README: Default notifier; real delivery (email/WhatsApp) lives in an external dispatcher.
package order

import (
	"go.uber.org/zap"

	"freshfold/internal/types"
)

// LogNotifier records status changes instead of dispatching them. It stands in
// for the external notification service in development and tests.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) OrderStatusChanged(orderID types.ID, orderNumber string, status Status) {
	n.log.Info("order status notification",
		zap.String("order_id", string(orderID)),
		zap.String("order_number", orderNumber),
		zap.String("status", string(status)),
	)
}
