package eventx_api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Routes wires the full operation surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.requestID)
	r.Use(h.logRequests)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/initialize", h.Initialize)
		r.Get("/", h.GetAdmin)
		r.Put("/", h.SetAdmin)
	})

	r.Route("/events", func(r chi.Router) {
		r.Post("/", h.CreateEvent)
		r.Get("/", h.ListEvents)
		r.Get("/{eventID}", h.GetEvent)
		r.Get("/{eventID}/ticket-count", h.EventTicketCount)
		r.Post("/{eventID}/cancel", h.CancelEvent)
	})

	r.Route("/tickets", func(r chi.Router) {
		r.Post("/", h.BuyTicket)
		r.Get("/{ticketID}", h.GetTicket)
		r.Get("/{ticketID}/valid", h.TicketValidity)
		r.Get("/{ticketID}/qr", h.TicketQR)
		r.Post("/{ticketID}/transfer", h.TransferTicket)
		r.Post("/{ticketID}/checkin", h.CheckinTicket)
	})

	r.Get("/users/{owner}/tickets", h.UserTickets)

	return r
}

// requestID tags every request so log lines and response envelopes correlate.
func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			r.Header.Set("X-Request-ID", uuid.New().String())
		}
		w.Header().Set("X-Request-ID", r.Header.Get("X-Request-ID"))
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.Logger.LogAPI(r.Method, r.URL.Path, http.StatusText(rec.status), time.Since(start).String())
	})
}
