package booking

import (
	"context"
	"time"

	"github.com/tech282/ecosystem-platform-api/models"
	"github.com/tech282/ecosystem-platform-api/utils"

	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// PaymentGateway reports the settlement state of a charge. The gateway also
// pushes asynchronous events which arrive through the webhook layer; this
// interface covers the synchronous status check used by confirm.
type PaymentGateway interface {
	ChargeStatus(ctx context.Context, paymentRef string) (models.ChargeStatus, error)
}

// StripeGateway implements PaymentGateway against Stripe payment intents.
type StripeGateway struct{}

func (StripeGateway) ChargeStatus(ctx context.Context, paymentRef string) (models.ChargeStatus, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	intent, err := paymentintent.Get(paymentRef, params)
	if err != nil {
		return "", err
	}
	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return models.ChargeSucceeded, nil
	case stripe.PaymentIntentStatusCanceled:
		return models.ChargeFailed, nil
	default:
		return models.ChargePending, nil
	}
}

// EventDeduper filters duplicate webhook deliveries. MarkProcessed returns
// false when the payment reference was already seen.
type EventDeduper interface {
	MarkProcessed(ctx context.Context, paymentRef string) (bool, error)
}

// RedisEventDeduper implements EventDeduper with a SETNX-guarded key per
// payment reference.
type RedisEventDeduper struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisEventDeduper(client *redis.Client) *RedisEventDeduper {
	return &RedisEventDeduper{Client: client, TTL: utils.PaymentEventCacheTTL}
}

func (d *RedisEventDeduper) MarkProcessed(ctx context.Context, paymentRef string) (bool, error) {
	return d.Client.SetNX(ctx, utils.PaymentEventCachePrefix+paymentRef, 1, d.TTL).Result()
}
