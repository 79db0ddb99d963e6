package handlers

// HandlerBundle aggregates the HTTP handlers for route registration.
type HandlerBundle struct {
	Booking  *BookingHandler
	Provider *ProviderHandler
	Webhook  *WebhookHandler
}
