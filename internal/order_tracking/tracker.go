package ordertracking

import (
	"context"
	"time"
	
	"github.com/go-co-op/gocron/v2"
	"github.com/katatrina/bakery-BE/internal/pathao"
	"github.com/katatrina/bakery-BE/internal/shipment"
	"github.com/rs/zerolog/log"
)

// OrderTracker polls Pathao for the status of active shipments.
type OrderTracker struct {
	store     shipment.Store
	courier   pathao.ICourierProvider
	scheduler gocron.Scheduler
	interval  time.Duration
}

// NewOrderTracker creates a tracker that checks active shipments every interval.
func NewOrderTracker(store shipment.Store, courier pathao.ICourierProvider, interval time.Duration) (*OrderTracker, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	
	return &OrderTracker{
		store:     store,
		courier:   courier,
		scheduler: scheduler,
		interval:  interval,
	}, nil
}

// Start registers the tracking job and starts the scheduler.
func (t *OrderTracker) Start() error {
	_, err := t.scheduler.NewJob(
		gocron.DurationJob(t.interval),
		gocron.NewTask(
			func() {
				ctx, cancel := context.WithTimeout(context.Background(), t.interval)
				defer cancel()
				
				t.checkShipments(ctx)
			},
		),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	
	t.scheduler.Start()
	log.Info().Dur("interval", t.interval).Msg("order tracker started")
	return nil
}

// Stop shuts the scheduler down.
func (t *OrderTracker) Stop() error {
	return t.scheduler.Shutdown()
}

// checkShipments refreshes every active shipment. Failures are logged and skipped.
func (t *OrderTracker) checkShipments(ctx context.Context) {
	shipments, err := t.store.ListActiveShipments(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active shipments")
		return
	}
	
	for _, s := range shipments {
		if err := t.checkShipment(ctx, s); err != nil {
			log.Error().Err(err).
				Str("merchant_order_id", s.MerchantOrderID).
				Str("consignment_id", s.ConsignmentID).
				Msg("failed to check shipment status")
		}
	}
}

func (t *OrderTracker) checkShipment(ctx context.Context, s shipment.Shipment) error {
	info, err := t.courier.TrackOrder(ctx, s.ConsignmentID)
	if err != nil {
		return err
	}
	
	orderStatus := info.OrderStatusSlug
	if orderStatus == "" {
		orderStatus = info.OrderStatus
	}
	if orderStatus == s.OrderStatus {
		return nil
	}
	
	updated, err := t.store.UpdateShipmentStatus(ctx, s.MerchantOrderID, orderStatus)
	if err != nil {
		return err
	}
	
	log.Info().
		Str("merchant_order_id", s.MerchantOrderID).
		Str("old_status", s.OrderStatus).
		Str("new_status", updated.OrderStatus).
		Str("overall_status", string(updated.OverallStatus)).
		Msg("shipment status updated")
	
	return nil
}
