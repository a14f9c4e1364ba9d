package supplytrigger

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/velmart/supplyline-backend/internal/reconciler"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
	"github.com/velmart/supplyline-backend/pkg/logger"
)

// Trigger is one supply-cycle request arriving over Pub/Sub.
type Trigger struct {
	ManufacturerPid string `json:"manufacturer_pid"`
	RetailerPid     string `json:"retailer_pid"`
}

// Consumer runs a reconciliation cycle per trigger message. Transient
// failures are nacked for redelivery; everything else acks, since replaying
// a malformed trigger or a validation rejection would only repeat it.
type Consumer struct {
	reconciler   reconciler.Service
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer constructs a consumer that watches the provided subscription.
func NewConsumer(svc reconciler.Service, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if svc == nil {
		return nil, errors.New("reconciler service is required")
	}
	if subscription == nil {
		return nil, errors.New("supply subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{reconciler: svc, subscription: subscription, logg: logg}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg.ID, msg.Data) {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// process runs one trigger and reports whether the message should be nacked.
func (c *Consumer) process(ctx context.Context, messageID string, data []byte) bool {
	logCtx := c.logg.WithField(ctx, "message_id", messageID)

	var trigger Trigger
	if err := json.Unmarshal(data, &trigger); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal supply trigger", err)
		return false
	}
	if strings.TrimSpace(trigger.ManufacturerPid) == "" || strings.TrimSpace(trigger.RetailerPid) == "" {
		c.logg.Warn(logCtx, "supply trigger missing manufacturer or retailer pid")
		return false
	}

	logCtx = c.logg.WithRetailerPid(
		c.logg.WithManufacturerPid(logCtx, trigger.ManufacturerPid),
		trigger.RetailerPid,
	)

	result, err := c.reconciler.RunCycle(logCtx, trigger.ManufacturerPid, trigger.RetailerPid)
	if err != nil {
		if shouldRetry(err) {
			c.logg.Error(logCtx, "supply cycle failed, requesting redelivery", err)
			return true
		}
		c.logg.Warn(c.logg.WithField(logCtx, "reason", err.Error()), "supply cycle rejected")
		return false
	}

	if result.ContractAid != nil {
		logCtx = c.logg.WithContractAid(logCtx, *result.ContractAid)
	}
	c.logg.Info(logCtx, "supply cycle triggered successfully")
	return false
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return true
	}
	return pkgerrors.MetadataFor(typed.Code()).Retryable
}
