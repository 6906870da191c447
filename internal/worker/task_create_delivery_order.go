package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	
	"github.com/hibiken/asynq"
	"github.com/katatrina/bakery-BE/internal/pathao"
	"github.com/katatrina/bakery-BE/internal/shipment"
	"github.com/rs/zerolog/log"
)

// PayloadCreateDeliveryOrder contain all data of the task that we want to store in Redis.
type PayloadCreateDeliveryOrder struct {
	Order pathao.OrderRequest `json:"order"`
}

func (distributor *RedisTaskDistributor) DistributeTaskCreateDeliveryOrder(
	ctx context.Context,
	payload *PayloadCreateDeliveryOrder,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}
	
	// Courier calls are never retried.
	opts = append([]asynq.Option{asynq.MaxRetry(0), asynq.Queue(QueueCritical)}, opts...)
	
	task := asynq.NewTask(TaskCreateDeliveryOrder, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	
	log.Info().Str("type", task.Type()).Str("merchant_order_id", payload.Order.MerchantOrderID).
		Str("queue", info.Queue).Int("max_retry", info.MaxRetry).Msg("task enqueued")
	
	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskCreateDeliveryOrder(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadCreateDeliveryOrder
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}
	
	if payload.Order.MerchantOrderID == "" {
		return fmt.Errorf("%w: %w", shipment.ErrMissingMerchantOrderID, asynq.SkipRetry)
	}
	
	result, err := processor.courier.CreateOrder(ctx, payload.Order)
	if err != nil {
		var apiErr *pathao.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			// A 4xx from Pathao is final.
			return fmt.Errorf("pathao rejected order %s: %w: %w", payload.Order.MerchantOrderID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to create pathao order %s: %w", payload.Order.MerchantOrderID, err)
	}
	
	if result.Data.ConsignmentID == "" {
		log.Warn().Str("type", task.Type()).Str("merchant_order_id", payload.Order.MerchantOrderID).
			Msg("pathao returned no consignment id, shipment not tracked")
		return nil
	}
	
	err = processor.store.SaveShipment(ctx, shipment.Shipment{
		MerchantOrderID: payload.Order.MerchantOrderID,
		ConsignmentID:   result.Data.ConsignmentID,
		OrderStatus:     result.Data.OrderStatus,
		DeliveryFee:     result.Data.DeliveryFee,
	})
	if err != nil {
		// The consignment already exists at Pathao.
		log.Error().Err(err).Str("merchant_order_id", payload.Order.MerchantOrderID).
			Str("consignment_id", result.Data.ConsignmentID).Msg("failed to save shipment")
		return fmt.Errorf("failed to save shipment: %w", asynq.SkipRetry)
	}
	
	log.Info().Str("type", task.Type()).Str("merchant_order_id", payload.Order.MerchantOrderID).
		Str("consignment_id", result.Data.ConsignmentID).Msg("task processed")
	
	return nil
}
