package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spacevoyager/bookings/internal/booking"
	"github.com/spacevoyager/bookings/internal/http/response"
	"github.com/spacevoyager/bookings/internal/session"
)

type BookingHandler struct {
	Manager *booking.Manager
	Svc     *booking.Service
	Store   *session.Store
}

func NewBookingHandler(manager *booking.Manager, svc *booking.Service, store *session.Store) *BookingHandler {
	return &BookingHandler{Manager: manager, Svc: svc, Store: store}
}

func (h *BookingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", h.createDraft)
		r.Get("/{id}", h.getDraft)
		r.Post("/{id}/commands", h.applyCommand)
		r.Post("/{id}/submit", h.submit)
	})
	r.Get("/{id}", h.getBooking)

	return r
}

func (h *BookingHandler) createDraft(w http.ResponseWriter, r *http.Request) {
	view := h.Manager.Create()
	response.WriteJSON(w, http.StatusCreated, view)
}

func (h *BookingHandler) getDraft(w http.ResponseWriter, r *http.Request) {
	view, err := h.Manager.View(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "draft not found")
		return
	}
	response.WriteJSON(w, http.StatusOK, view)
}

func (h *BookingHandler) applyCommand(w http.ResponseWriter, r *http.Request) {
	var cmd booking.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	view, err := h.Manager.Apply(chi.URLParam(r, "id"), cmd)
	if err == booking.ErrDraftNotFound {
		response.NotFound(w, "draft not found")
		return
	}
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, view)
}

func (h *BookingHandler) submit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ContinueAsGuest *bool `json:"continueAsGuest"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			response.BadRequest(w, "invalid json")
			return
		}
	}

	result, err := h.Svc.Submit(r.Context(), chi.URLParam(r, "id"), in.ContinueAsGuest)
	if err == booking.ErrDraftNotFound {
		response.NotFound(w, "draft not found")
		return
	}
	if err != nil {
		response.InternalError(w, "could not submit booking")
		return
	}

	switch result.Outcome {
	case booking.OutcomeInvalid:
		response.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  result.Alert,
			"code":   response.CodeValidationFailed,
			"fields": result.Errors,
		})
	case booking.OutcomeGuestPromptRequired:
		response.WriteJSON(w, http.StatusConflict, map[string]string{
			"code":   response.CodeGuestPrompt,
			"prompt": result.Prompt,
		})
	case booking.OutcomeLoginRedirect:
		response.WriteJSON(w, http.StatusOK, map[string]string{
			"redirect": result.Redirect,
		})
	default:
		response.WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"booking":  result.Booking,
			"redirect": result.Redirect,
		})
	}
}

// getBooking backs the confirmation page lookup by id.
func (h *BookingHandler) getBooking(w http.ResponseWriter, r *http.Request) {
	b := h.Store.FindBooking(r.Context(), chi.URLParam(r, "id"))
	if b == nil {
		response.NotFound(w, "booking not found")
		return
	}
	response.WriteJSON(w, http.StatusOK, b)
}
