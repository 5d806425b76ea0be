package doselog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medication-reminders/internal/domain/medications"
	"medication-reminders/internal/recurrence"
)

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medications.Service) {
	r.Route("/medications/{medID}/doses", func(dr chi.Router) {
		dr.Post("/", recordDoseHandler(svc, medsSvc))
		dr.Get("/", listDosesHandler(svc, medsSvc))

		// Anular (void) un registro de toma
		dr.Post("/{doseID}/void", voidDoseHandler(svc, medsSvc))
	})
}

type recordDoseRequest struct {
	Date   string     `json:"date"`   // YYYY-MM-DD
	Time   string     `json:"time"`   // HH:MM
	Status DoseStatus `json:"status"` // taken | skipped
	Source Source     `json:"source"` // opcional
	Notes  string     `json:"notes"`
}

type doseResponse struct {
	ID           string     `json:"id"`
	MedicationID int64      `json:"medication_id"`
	Date         string     `json:"date"`
	Time         string     `json:"time"`
	Status       DoseStatus `json:"status"`
	Source       Source     `json:"source"`
	Notes        string     `json:"notes"`
	RecordedAt   time.Time  `json:"recorded_at"`
}

// recordDoseHandler godoc
// @Summary Registrar una toma
// @Description Registra que la ocurrencia (fecha + hora) de un schedule fue tomada o salteada. El historial es append-only.
// @Tags doses
// @Accept json
// @Produce json
// @Param medID path int true "ID del schedule"
// @Param payload body recordDoseRequest true "date YYYY-MM-DD, time HH:MM, status taken|skipped"
// @Success 201 {object} doseResponse
// @Failure 400 {string} string "invalid json / fecha u hora inválida"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medID}/doses [post]
func recordDoseHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medID, err := pathMedID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		if _, err := medsSvc.GetByID(r.Context(), medID); err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		var req recordDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		tod, err := recurrence.ParseTimeOfDay(req.Time)
		if err != nil {
			http.Error(w, "time must be HH:MM", http.StatusBadRequest)
			return
		}

		e, err := svc.Record(r.Context(), medID, RecordInput{
			Day:    recurrence.EpochDayOf(d),
			Time:   tod,
			Status: req.Status,
			Source: req.Source,
			Notes:  req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toDoseResponse(e))
	}
}

// listDosesHandler godoc
// @Summary Listar tomas de un schedule
// @Tags doses
// @Produce json
// @Param medID path int true "ID del schedule"
// @Param status query string false "taken | skipped | voided"
// @Param from query string false "Fecha mínima (YYYY-MM-DD)"
// @Param to query string false "Fecha máxima (YYYY-MM-DD)"
// @Param limit query int false "Máximo de registros (1-200). Por defecto 50"
// @Success 200 {array} doseResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medID}/doses [get]
func listDosesHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medID, err := pathMedID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		if _, err := medsSvc.GetByID(r.Context(), medID); err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByMedication(r.Context(), medID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]doseResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toDoseResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// voidDoseHandler godoc
// @Summary Anular (void) un registro de toma
// @Tags doses
// @Produce json
// @Param medID path int true "ID del schedule"
// @Param doseID path string true "ID del registro"
// @Success 200 {object} doseResponse
// @Failure 404 {string} string "dose event not found"
// @Router /medications/{medID}/doses/{doseID}/void [post]
func voidDoseHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medID, err := pathMedID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		if _, err := medsSvc.GetByID(r.Context(), medID); err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		doseID := chi.URLParam(r, "doseID")

		// El registro existe y pertenece al schedule
		ev, err := svc.GetByID(r.Context(), doseID)
		if err != nil || ev.MedicationID != medID {
			http.Error(w, "dose event not found", http.StatusNotFound)
			return
		}

		updated, err := svc.Void(r.Context(), doseID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "dose event not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toDoseResponse(updated))
	}
}

func pathMedID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "medID"), 10, 64)
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	filter := ListFilter{Limit: limit}

	if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
		st := DoseStatus(v)
		if st != StatusTaken && st != StatusSkipped && st != StatusVoided {
			return ListFilter{}, errors.New("status must be taken, skipped or voided")
		}
		filter.Status = st
	}

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return ListFilter{}, errors.New("from must be YYYY-MM-DD")
		}
		d := recurrence.EpochDayOf(t)
		filter.FromDay = &d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return ListFilter{}, errors.New("to must be YYYY-MM-DD")
		}
		d := recurrence.EpochDayOf(t)
		filter.ToDay = &d
	}

	return filter, nil
}

func toDoseResponse(e DoseEvent) doseResponse {
	y, mo, d := recurrence.DateOf(e.Day)
	return doseResponse{
		ID:           e.ID,
		MedicationID: e.MedicationID,
		Date:         time.Date(y, mo, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		Time:         e.Time.String(),
		Status:       e.Status,
		Source:       e.Source,
		Notes:        e.Notes,
		RecordedAt:   e.RecordedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
