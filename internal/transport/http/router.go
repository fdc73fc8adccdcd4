package http

import (
	"net/http"

	"github.com/cimillas/delivery-scheduler/internal/app"
	"github.com/cimillas/delivery-scheduler/internal/clock"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RouterConfig carries the transport-level wiring.
type RouterConfig struct {
	Logger      *zap.Logger
	CORSOrigins []string
	Host        string
	Tokens      *CalendarTokens
	Clock       clock.Clock
}

// NewRouter mounts every endpoint of the scheduling API.
func NewRouter(svc *app.BookingService, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS(cfg.CORSOrigins))

	r.Get("/health", HealthHandler)
	r.Get("/slots", HandleListSlots(svc))
	r.Post("/bookings", HandleCreateBooking(svc, cfg.Tokens))
	r.Get("/bookings", HandleListBookings(svc, cfg.Tokens))
	r.Post("/bookings/{orderRef}/events", HandleOrderEvent(svc))
	r.Get("/bookings/{orderRef}/calendar", HandleCalendarExport(svc, cfg.Tokens, cfg.Host, cfg.Clock))
	r.Post("/fees/quote", HandleQuoteFees(svc))
	r.NotFound(NotFoundHandler())

	return r
}
