package utils

import "time"

// PaymentEventCachePrefix is the prefix used for Redis payment-event dedupe keys.
const PaymentEventCachePrefix = "payevt:"

// PaymentEventCacheTTL is the time-to-live for payment-event dedupe entries.
const PaymentEventCacheTTL = 48 * time.Hour
