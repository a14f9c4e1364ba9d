package supplytrigger

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/velmart/supplyline-backend/internal/reconciler"
	pkgerrors "github.com/velmart/supplyline-backend/pkg/errors"
	"github.com/velmart/supplyline-backend/pkg/logger"
)

type stubReconciler struct {
	calls []Trigger
	err   error
}

func (s *stubReconciler) RunCycle(_ context.Context, manufacturerPid, retailerPid string) (*reconciler.CycleResult, error) {
	s.calls = append(s.calls, Trigger{ManufacturerPid: manufacturerPid, RetailerPid: retailerPid})
	if s.err != nil {
		return nil, s.err
	}
	aid := "contract_1"
	return &reconciler.CycleResult{RetailerPid: retailerPid, ContractAid: &aid}, nil
}

func newTestConsumer(svc reconciler.Service) *Consumer {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	return &Consumer{reconciler: svc, logg: logg}
}

func TestProcessRunsCycle(t *testing.T) {
	svc := &stubReconciler{}
	c := newTestConsumer(svc)

	nack := c.process(context.Background(), "m1", []byte(`{"manufacturer_pid":"mfr_1","retailer_pid":"shop_a"}`))
	if nack {
		t.Fatalf("successful cycle must ack")
	}
	if len(svc.calls) != 1 || svc.calls[0].RetailerPid != "shop_a" {
		t.Fatalf("unexpected calls: %+v", svc.calls)
	}
}

func TestProcessAcksMalformedPayload(t *testing.T) {
	svc := &stubReconciler{}
	c := newTestConsumer(svc)

	if nack := c.process(context.Background(), "m1", []byte(`not json`)); nack {
		t.Fatalf("malformed payload must ack, redelivery cannot fix it")
	}
	if nack := c.process(context.Background(), "m2", []byte(`{"retailer_pid":"shop_a"}`)); nack {
		t.Fatalf("missing manufacturer must ack")
	}
	if len(svc.calls) != 0 {
		t.Fatalf("no cycle may run for bad payloads, got %d", len(svc.calls))
	}
}

func TestProcessAcksNonRetryableRejections(t *testing.T) {
	for _, code := range []pkgerrors.Code{
		pkgerrors.CodeValidation,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
	} {
		svc := &stubReconciler{err: pkgerrors.New(code, "rejected")}
		c := newTestConsumer(svc)
		if nack := c.process(context.Background(), "m1", []byte(`{"manufacturer_pid":"mfr_1","retailer_pid":"shop_a"}`)); nack {
			t.Fatalf("code %s: expected ack", code)
		}
	}
}

func TestProcessNacksRetryableFailures(t *testing.T) {
	for _, err := range []error{
		pkgerrors.New(pkgerrors.CodeDependency, "import endpoint unreachable"),
		pkgerrors.New(pkgerrors.CodeInternal, "db down"),
		errors.New("untyped failure"),
		context.DeadlineExceeded,
	} {
		svc := &stubReconciler{err: err}
		c := newTestConsumer(svc)
		if nack := c.process(context.Background(), "m1", []byte(`{"manufacturer_pid":"mfr_1","retailer_pid":"shop_a"}`)); !nack {
			t.Fatalf("error %v: expected nack for redelivery", err)
		}
	}
}
