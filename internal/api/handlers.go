package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pitchbook/internal/schedule"
	"pitchbook/internal/service"
	"pitchbook/internal/timeutil"
)

type bookingRequestBody struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	slots, err := s.bookings.Availability(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	type slotResponse struct {
		Start  string `json:"start"`
		End    string `json:"end"`
		Amount int64  `json:"amount"`
	}

	out := make([]slotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotResponse{
			Start:  slot.Start.String(),
			End:    slot.End.String(),
			Amount: s.bookings.Quote(slot),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"date": date, "slots": out})
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body bookingRequestBody
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	iv, err := timeutil.NewInterval(body.StartTime, body.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid time format; expected HH:MM")
		return
	}

	reservation, err := s.bookings.Book(r.Context(), schedule.BookingRequest{
		CustomerName: body.CustomerName,
		Phone:        body.Phone,
		Email:        body.Email,
		Date:         body.Date,
		Interval:     iv,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reservation)
}

func (s *HTTPServer) handleBookedDates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dates, err := s.bookings.BookedDates(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": dates})
}

// writeServiceError maps service errors onto the API's status codes.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	var conflict *schedule.ConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":         "slot already booked",
			"conflict_with": conflict.With.String(),
		})
	case errors.Is(err, schedule.ErrMissingField),
		errors.Is(err, schedule.ErrInvalidRange),
		errors.Is(err, service.ErrMalformedDate),
		errors.Is(err, service.ErrDateOutOfWindow),
		errors.Is(err, timeutil.ErrMalformedTime),
		errors.Is(err, service.ErrInvalidExpense):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
