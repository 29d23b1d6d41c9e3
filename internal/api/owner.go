package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"pitchbook/internal/models"
)

// requireSession resolves the bearer token before calling the handler.
func (s *HTTPServer) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if _, err := s.sessions.Authenticate(r.Context(), token); err != nil {
			s.writeServiceError(w, err)
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

func (s *HTTPServer) handleOwnerLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.sessions.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": session.Token})
}

func (s *HTTPServer) handleOwnerLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.sessions.Logout(r.Context(), bearerToken(r)); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleOwnerBookings lists reservations, optionally narrowed to a single date
// or a from/to range.
func (s *HTTPServer) handleOwnerBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		from, to = date, date
	}

	var (
		reservations []models.Reservation
		err          error
	)
	if from != "" || to != "" {
		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "from and to must be given together")
			return
		}
		reservations, err = s.bookings.ReservationsForRange(r.Context(), from, to)
	} else {
		reservations, err = s.bookings.Reservations(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if reservations == nil {
		reservations = []models.Reservation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": reservations})
}

func (s *HTTPServer) handleOwnerExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses, err := s.expenses.List(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		if expenses == nil {
			expenses = []models.Expense{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})

	case http.MethodPost:
		var body struct {
			Item     string `json:"item"`
			Category string `json:"category"`
			Amount   int64  `json:"amount"`
			Notes    string `json:"notes"`
		}
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		expense := &models.Expense{
			Item:     body.Item,
			Category: body.Category,
			Amount:   body.Amount,
			Notes:    body.Notes,
		}
		if err := s.expenses.Record(r.Context(), expense); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, expense)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reservations, err := s.bookings.Reservations(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := s.exporter.WriteReservations(w, reservations); err != nil {
		s.logger.Error().Err(err).Msg("bookings export failed")
	}
}

func (s *HTTPServer) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	expenses, err := s.expenses.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.xlsx"`)
	if err := s.exporter.WriteExpenses(w, expenses); err != nil {
		s.logger.Error().Err(err).Msg("expenses export failed")
	}
}
