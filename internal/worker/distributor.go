package worker

import (
	"context"
	
	"github.com/hibiken/asynq"
)

// TaskCreateDeliveryOrder creates a Pathao consignment outside the request path.
const TaskCreateDeliveryOrder = "courier:create_order"

// TaskDistributor puts courier tasks on the redis queue.
type TaskDistributor interface {
	DistributeTaskCreateDeliveryOrder(ctx context.Context, payload *PayloadCreateDeliveryOrder, opts ...asynq.Option) error
	Close() error
}

type RedisTaskDistributor struct {
	client *asynq.Client
}

func NewTaskDistributor(redisOpt asynq.RedisClientOpt) TaskDistributor {
	return &RedisTaskDistributor{
		client: asynq.NewClient(redisOpt),
	}
}

// Close releases the redis connection held by the asynq client.
func (distributor *RedisTaskDistributor) Close() error {
	return distributor.client.Close()
}
