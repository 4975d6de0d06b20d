package eventx_api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventx/internal/auth"
	"eventx/internal/engine"
	"eventx/internal/kafka"
	"eventx/internal/logger"
	"eventx/internal/models"
	"eventx/internal/qr"
	"eventx/internal/utils"
)

// Handler exposes the engine's operation surface over HTTP. It owns no
// business rules: every invariant lives in the engine, the handler only
// decodes requests, resolves the caller identity, and maps engine errors to
// status codes. Kafka notifications go out after the engine has committed.
type Handler struct {
	Engine   *engine.Engine
	Producer *kafka.Producer
	QR       *qr.Generator
	Logger   *logger.Logger
}

func NewHandler(eng *engine.Engine, producer *kafka.Producer, qrGen *qr.Generator, log *logger.Logger) *Handler {
	return &Handler{
		Engine:   eng,
		Producer: producer,
		QR:       qrGen,
		Logger:   log,
	}
}

// Initialize bootstraps the engine state. Unguarded: calling it again resets
// everything, so deployments front it with infrastructure-level protection.
func (h *Handler) Initialize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Admin string `json:"admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSON(w, r, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}
	if body.Admin == "" {
		utils.WriteJSON(w, r, http.StatusBadRequest, utils.ErrorResponse("admin is required", ""))
		return
	}

	if err := h.Engine.Initialize(r.Context(), body.Admin); err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.Logger.LogSecurity("INITIALIZE", "engine initialized with admin "+body.Admin)
	utils.WriteJSON(w, r, http.StatusCreated, utils.SuccessResponse("engine initialized", nil))
}

func (h *Handler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := h.Engine.Admin(r.Context())
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("admin", map[string]string{"admin": admin}))
}

func (h *Handler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromRequest(r)
	if err != nil {
		utils.WriteJSON(w, r, http.StatusUnauthorized, utils.ErrorResponse("authorization required", err.Error()))
		return
	}

	var body struct {
		NewAdmin string `json:"new_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSON(w, r, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	if err := h.Engine.SetAdmin(r.Context(), caller, body.NewAdmin); err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.Logger.LogSecurity("SET_ADMIN", "admin rotated to "+body.NewAdmin)
	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("admin updated", nil))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromRequest(r)
	if err != nil {
		utils.WriteJSON(w, r, http.StatusUnauthorized, utils.ErrorResponse("authorization required", err.Error()))
		return
	}

	var params models.CreateEventParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		utils.WriteJSON(w, r, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	id, err := h.Engine.CreateEvent(r.Context(), caller, params)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.Logger.LogEvent("CREATE", id, params.Title)
	utils.WriteJSON(w, r, http.StatusCreated, utils.SuccessResponse("event created", map[string]string{"event_id": id}))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")

	event, err := h.Engine.GetEvent(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	if event == nil {
		utils.WriteJSON(w, r, http.StatusNotFound, utils.ErrorResponse("event not found", id))
		return
	}
	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("event", event))
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Engine.Events(r.Context())
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("events", events))
}

func (h *Handler) EventTicketCount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")

	count, err := h.Engine.EventTicketCount(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("ticket count", map[string]uint32{"tickets_sold": count}))
}

func (h *Handler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromRequest(r)
	if err != nil {
		utils.WriteJSON(w, r, http.StatusUnauthorized, utils.ErrorResponse("authorization required", err.Error()))
		return
	}
	id := chi.URLParam(r, "eventID")

	if err := h.Engine.CancelEvent(r.Context(), caller, id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.Logger.LogEvent("CANCEL", id, "cancelled by "+caller)
	h.notifyEventCancelled(r.Context(), id)

	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("event cancelled", nil))
}

func (h *Handler) BuyTicket(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromRequest(r)
	if err != nil {
		utils.WriteJSON(w, r, http.StatusUnauthorized, utils.ErrorResponse("authorization required", err.Error()))
		return
	}

	var body struct {
		EventID string `json:"event_id"`
		Buyer   string `json:"buyer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSON(w, r, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}
	// By convention the buyer is the caller; an explicit buyer field lets a
	// gateway purchase on behalf of a user.
	if body.Buyer == "" {
		body.Buyer = caller
	}

	id, err := h.Engine.MintTicket(r.Context(), caller, body.EventID, body.Buyer)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.Logger.LogTicket("MINT", id, "sold to "+body.Buyer)
	h.notifyTicketMinted(r.Context(), id)

	utils.WriteJSON(w, r, http.StatusCreated, utils.SuccessResponse("ticket purchased", map[string]string{"ticket_id": id}))
}

func (h *Handler) TransferTicket(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromRequest(r)
	if err != nil {
		utils.WriteJSON(w, r, http.StatusUnauthorized, utils.ErrorResponse("authorization required", err.Error()))
		return
	}
	id := chi.URLParam(r, "ticketID")

	var body struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSON(w, r, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	if err := h.Engine.TransferTicket(r.Context(), caller, id, body.From, body.To); err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.Logger.LogTicket("TRANSFER", id, body.From+" -> "+body.To)
	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("ticket transferred", nil))
}

func (h *Handler) CheckinTicket(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromRequest(r)
	if err != nil {
		utils.WriteJSON(w, r, http.StatusUnauthorized, utils.ErrorResponse("authorization required", err.Error()))
		return
	}
	id := chi.URLParam(r, "ticketID")

	if err := h.Engine.UseTicket(r.Context(), caller, id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.Logger.LogTicket("CHECKIN", id, "checked in by "+caller)
	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("ticket checked in", nil))
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ticketID")

	ticket, err := h.Engine.GetTicket(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	if ticket == nil {
		utils.WriteJSON(w, r, http.StatusNotFound, utils.ErrorResponse("ticket not found", id))
		return
	}
	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("ticket", ticket))
}

func (h *Handler) TicketValidity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ticketID")

	valid, err := h.Engine.IsTicketValid(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("ticket validity", map[string]bool{"valid": valid}))
}

// TicketQR renders the ticket as an encrypted QR code PNG, the payload the
// check-in scanner expects.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ticketID")

	ticket, err := h.Engine.GetTicket(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	if ticket == nil {
		utils.WriteJSON(w, r, http.StatusNotFound, utils.ErrorResponse("ticket not found", id))
		return
	}

	png, err := h.QR.GenerateEncryptedQR(*ticket)
	if err != nil {
		utils.WriteJSON(w, r, http.StatusInternalServerError, utils.ErrorResponse("failed to generate QR", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// UserTickets reports the tickets held by a user. The engine keeps no owner
// index, so this is always an empty list; the route exists to keep the
// operation surface complete.
func (h *Handler) UserTickets(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")

	ids, err := h.Engine.UserTickets(r.Context(), owner)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	utils.WriteJSON(w, r, http.StatusOK, utils.SuccessResponse("user tickets", map[string]any{"ticket_ids": ids}))
}

func (h *Handler) notifyTicketMinted(ctx context.Context, ticketID string) {
	if h.Producer == nil {
		return
	}
	ticket, err := h.Engine.GetTicket(ctx, ticketID)
	if err != nil || ticket == nil {
		return
	}
	msg := kafka.TicketMintedMessage{
		TicketID:     ticket.ID,
		EventID:      ticket.EventID,
		Owner:        ticket.Owner,
		PurchaseDate: ticket.PurchaseDate,
	}
	if err := h.Producer.PublishTicketMinted(ctx, msg); err != nil {
		h.Logger.Error("KAFKA", "failed to publish ticket.minted: "+err.Error())
	}
}

func (h *Handler) notifyEventCancelled(ctx context.Context, eventID string) {
	if h.Producer == nil {
		return
	}
	event, err := h.Engine.GetEvent(ctx, eventID)
	if err != nil || event == nil {
		return
	}
	msg := kafka.EventCancelledMessage{
		EventID:     event.ID,
		Title:       event.Title,
		TicketsSold: event.TicketsSold,
		TicketPrice: event.TicketPrice,
	}
	if err := h.Producer.PublishEventCancelled(ctx, msg); err != nil {
		h.Logger.Error("KAFKA", "failed to publish event.cancelled: "+err.Error())
	}
}
