package notification

import (
	"context"
	"log/slog"
)

// Notice kinds emitted by the ledger after successful mutations.
const (
	KindAccountCreated = "account_created"
	KindDeposit        = "deposit"
	KindWithdrawal     = "withdrawal"
	KindTransfer       = "transfer"
)

// Notice describes a completed ledger operation.
type Notice struct {
	Kind          string
	Username      string
	AccountNumber string
	Amount        float64
}

// Notifier delivers operation notices to downstream systems.
type Notifier interface {
	Send(ctx context.Context, n Notice) error
}

// LoggerNotifier writes notices to the structured logger. It stands in for
// whatever statement or alerting channel a deployment wires up.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the notice to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, notice Notice) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notice",
		"kind", notice.Kind,
		"username", notice.Username,
		"account", notice.AccountNumber,
		"amount", notice.Amount,
	)
	return nil
}
