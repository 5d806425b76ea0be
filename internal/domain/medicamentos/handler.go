package medicamentos

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medicamentos", func(mr chi.Router) {
		mr.Post("/", createMedicamentoHandler(svc))
		mr.Get("/", listMedicamentosHandler(svc))

		mr.Get("/{medicamentoID}", getMedicamentoHandler(svc))
		mr.Delete("/{medicamentoID}", deleteMedicamentoHandler(svc))

		// Marcar tomado / no tomado
		mr.Post("/{medicamentoID}/tomado", markTomadoHandler(svc))
	})
}

type createMedicamentoRequest struct {
	Nombre     string `json:"nombre"`
	Cantidad   string `json:"cantidad"`
	Frecuencia string `json:"frecuencia"`
	Hora       string `json:"hora"`
	Tipo       string `json:"tipo"`
}

type markTomadoRequest struct {
	Tomado bool `json:"tomado"`
}

type medicamentoResponse struct {
	ID         string    `json:"id"`
	Nombre     string    `json:"nombre"`
	Cantidad   string    `json:"cantidad"`
	Frecuencia string    `json:"frecuencia"`
	Hora       string    `json:"hora"`
	Tipo       string    `json:"tipo"`
	Tomado     bool      `json:"tomado"`
	CreatedAt  time.Time `json:"created_at"`
}

// createMedicamentoHandler godoc
// @Summary Crear entrada en la libreta de medicamentos
// @Description Alta simple sin recurrencia ni alarmas. Para recordatorios programados usar /medications.
// @Tags medicamentos
// @Accept json
// @Produce json
// @Param payload body createMedicamentoRequest true "Datos del medicamento"
// @Success 201 {object} medicamentoResponse
// @Failure 400 {string} string "invalid json / nombre requerido"
// @Router /medicamentos [post]
func createMedicamentoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMedicamentoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), CreateInput{
			Nombre:     req.Nombre,
			Cantidad:   req.Cantidad,
			Frecuencia: req.Frecuencia,
			Hora:       req.Hora,
			Tipo:       req.Tipo,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "nombre is required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicamentoResponse(m))
	}
}

func listMedicamentosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicamentoResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicamentoResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicamentoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicamentoID"))
		if err != nil {
			http.Error(w, "medicamento not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toMedicamentoResponse(m))
	}
}

func markTomadoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req markTomadoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.MarkTomado(r.Context(), chi.URLParam(r, "medicamentoID"), req.Tomado)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medicamento not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toMedicamentoResponse(m))
	}
}

func deleteMedicamentoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "medicamentoID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medicamento not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toMedicamentoResponse(m Medicamento) medicamentoResponse {
	return medicamentoResponse{
		ID:         m.ID,
		Nombre:     m.Nombre,
		Cantidad:   m.Cantidad,
		Frecuencia: m.Frecuencia,
		Hora:       m.Hora,
		Tipo:       m.Tipo,
		Tomado:     m.Tomado,
		CreatedAt:  m.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
