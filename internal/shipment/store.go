package shipment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	shipmentKeyPrefix = "shipment"
	activeSetKey      = "shipments:active"
)

var (
	ErrShipmentNotFound       = errors.New("shipment not found")
	ErrMissingMerchantOrderID = errors.New("merchant order id is required")
)

// Store provides all functions to persist shipments.
type Store interface {
	SaveShipment(ctx context.Context, shipment Shipment) error
	GetShipment(ctx context.Context, merchantOrderID string) (Shipment, error)
	ListActiveShipments(ctx context.Context) ([]Shipment, error)
	UpdateShipmentStatus(ctx context.Context, merchantOrderID, orderStatus string) (Shipment, error)
}

type RedisStore struct {
	redis *redis.Client
	now   func() time.Time
}

// NewRedisStore creates a new Store backed by redis.
func NewRedisStore(redisDb *redis.Client) *RedisStore {
	return &RedisStore{
		redis: redisDb,
		now:   time.Now,
	}
}

func shipmentKey(merchantOrderID string) string {
	return fmt.Sprintf("%s:%s", shipmentKeyPrefix, merchantOrderID)
}

func (s *RedisStore) SaveShipment(ctx context.Context, shipment Shipment) error {
	if shipment.MerchantOrderID == "" {
		return ErrMissingMerchantOrderID
	}
	
	now := s.now()
	if shipment.CreatedAt.IsZero() {
		shipment.CreatedAt = now
	}
	shipment.UpdatedAt = now
	shipment.OverallStatus = MapOrderStatus(shipment.OrderStatus)
	
	return s.write(ctx, shipment)
}

func (s *RedisStore) write(ctx context.Context, shipment Shipment) error {
	data, err := json.Marshal(shipment)
	if err != nil {
		return fmt.Errorf("failed to marshal shipment: %w", err)
	}
	
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, shipmentKey(shipment.MerchantOrderID), data, 0)
		if shipment.OverallStatus.IsTerminal() {
			pipe.SRem(ctx, activeSetKey, shipment.MerchantOrderID)
		} else {
			pipe.SAdd(ctx, activeSetKey, shipment.MerchantOrderID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save shipment %s: %w", shipment.MerchantOrderID, err)
	}
	
	return nil
}

func (s *RedisStore) GetShipment(ctx context.Context, merchantOrderID string) (Shipment, error) {
	var shipment Shipment
	
	data, err := s.redis.Get(ctx, shipmentKey(merchantOrderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return shipment, ErrShipmentNotFound
		}
		return shipment, fmt.Errorf("failed to get shipment %s: %w", merchantOrderID, err)
	}
	
	if err = json.Unmarshal(data, &shipment); err != nil {
		return shipment, fmt.Errorf("failed to unmarshal shipment %s: %w", merchantOrderID, err)
	}
	
	return shipment, nil
}

func (s *RedisStore) ListActiveShipments(ctx context.Context) ([]Shipment, error) {
	ids, err := s.redis.SMembers(ctx, activeSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list active shipments: %w", err)
	}
	
	shipments := make([]Shipment, 0, len(ids))
	for _, id := range ids {
		shipment, err := s.GetShipment(ctx, id)
		if err != nil {
			if errors.Is(err, ErrShipmentNotFound) {
				// Stale member, the shipment key is gone.
				if err := s.redis.SRem(ctx, activeSetKey, id).Err(); err != nil {
					log.Error().Err(err).Str("merchant_order_id", id).Msg("failed to drop stale active shipment")
				}
				continue
			}
			log.Error().Err(err).Str("merchant_order_id", id).Msg("failed to load active shipment")
			continue
		}
		shipments = append(shipments, shipment)
	}
	
	return shipments, nil
}

func (s *RedisStore) UpdateShipmentStatus(ctx context.Context, merchantOrderID, orderStatus string) (Shipment, error) {
	shipment, err := s.GetShipment(ctx, merchantOrderID)
	if err != nil {
		return shipment, err
	}
	
	shipment.OrderStatus = orderStatus
	shipment.OverallStatus = MapOrderStatus(orderStatus)
	shipment.UpdatedAt = s.now()
	
	if err = s.write(ctx, shipment); err != nil {
		return shipment, err
	}
	
	return shipment, nil
}
