package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medication-reminders/internal/recurrence"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))

		// Schedules que se solapan con un rango de fechas (vista calendario)
		mr.Get("/range", listMedicationsInRangeHandler(svc))

		mr.Get("/{medID}", getMedicationHandler(svc))
		mr.Patch("/{medID}", updateMedicationHandler(svc))
		mr.Delete("/{medID}", deleteMedicationHandler(svc))

		mr.Get("/{medID}/calendar.ics", icalHandler(svc))
	})
}

type createMedicationRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind" enums:"tablet,capsule,injection,drops,syrup,other"`
	Dose string `json:"dose"`

	Mode          string `json:"mode" enums:"interval,count"`
	IntervalHours int    `json:"interval_hours"` // solo mode=interval
	TimesPerDay   int    `json:"times_per_day"`  // solo mode=count
	StartTime     string `json:"start_time"`     // HH:MM

	StartDate     string   `json:"start_date"` // YYYY-MM-DD
	EndDate       string   `json:"end_date"`   // YYYY-MM-DD
	SelectedDates []string `json:"selected_dates"` // YYYY-MM-DD; si viene, reemplaza el rango

	RemindBeforeMinutes int `json:"remind_before_minutes"`
}

type updateMedicationRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name *string `json:"name"`
	Kind *string `json:"kind"`
	Dose *string `json:"dose"`

	Mode          *string `json:"mode"`
	IntervalHours *int    `json:"interval_hours"`
	TimesPerDay   *int    `json:"times_per_day"`
	StartTime     *string `json:"start_time"`

	StartDate     *string   `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	SelectedDates *[]string `json:"selected_dates"`

	RemindBeforeMinutes *int  `json:"remind_before_minutes"`
	Active              *bool `json:"active"`
}

type medicationResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
	Dose string `json:"dose"`

	Mode          string   `json:"mode"`
	IntervalHours int      `json:"interval_hours,omitempty"`
	TimesPerDay   int      `json:"times_per_day,omitempty"`
	StartTime     string   `json:"start_time"`
	Times         []string `json:"times"`

	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	SelectedDates []string `json:"selected_dates,omitempty"`

	RemindBeforeMinutes int  `json:"remind_before_minutes"`
	Active              bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createMedicationHandler godoc
// @Summary Crear schedule de medicación
// @Description Crea un schedule recurrente. mode=interval repite cada interval_hours desde start_time; mode=count reparte times_per_day tomas equiespaciadas. Al persistir se registran las alarmas de todas las ocurrencias futuras.
// @Tags medications
// @Accept json
// @Produce json
// @Param payload body createMedicationRequest true "Datos del schedule; fechas en YYYY-MM-DD, horas en HH:MM"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / regla o rango inválido"
// @Router /medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := toCreateInput(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listMedicationsInRangeHandler godoc
// @Summary Schedules que caen en un rango de fechas
// @Tags medications
// @Produce json
// @Param from query string true "YYYY-MM-DD"
// @Param to query string true "YYYY-MM-DD"
// @Success 200 {array} medicationResponse
// @Failure 400 {string} string "from/to inválidos"
// @Router /medications/range [get]
func listMedicationsInRangeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := parseDate(r.URL.Query().Get("from"))
		if err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to, err := parseDate(r.URL.Query().Get("to"))
		if err != nil {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		items, err := svc.ListBetween(r.Context(), from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "from must not be after to", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := medID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		m, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := medID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var req updateMedicationRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := toUpdateInput(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), id, in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "medication not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := medID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func icalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := medID(r)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ics, err := svc.ICalendar(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(ics)
	}
}

func medID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "medID"), 10, 64)
}

func parseDate(s string) (int64, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return recurrence.EpochDayOf(t), nil
}

func parseRule(mode string, intervalHours, timesPerDay int, startTime string) (recurrence.Rule, error) {
	start, err := recurrence.ParseTimeOfDay(startTime)
	if err != nil {
		return recurrence.Rule{}, errors.New("start_time must be HH:MM")
	}

	rule := recurrence.Rule{Start: start}
	switch mode {
	case string(recurrence.ModeFixedInterval):
		rule.Mode = recurrence.ModeFixedInterval
		rule.IntervalHours = intervalHours
	case string(recurrence.ModeCountPerDay):
		rule.Mode = recurrence.ModeCountPerDay
		rule.TimesPerDay = timesPerDay
	default:
		return recurrence.Rule{}, errors.New("mode must be interval or count")
	}

	if err := rule.Validate(); err != nil {
		return recurrence.Rule{}, err
	}
	return rule, nil
}

func toCreateInput(req createMedicationRequest) (CreateInput, error) {
	rule, err := parseRule(req.Mode, req.IntervalHours, req.TimesPerDay, req.StartTime)
	if err != nil {
		return CreateInput{}, err
	}

	in := CreateInput{
		Name:                req.Name,
		Kind:                Kind(strings.TrimSpace(req.Kind)),
		Dose:                req.Dose,
		Rule:                rule,
		RemindBeforeMinutes: req.RemindBeforeMinutes,
	}

	if len(req.SelectedDates) > 0 {
		days, err := parseDates(req.SelectedDates)
		if err != nil {
			return CreateInput{}, err
		}
		in.SelectedDays = days
		return in, nil
	}

	if in.StartDay, err = parseDate(req.StartDate); err != nil {
		return CreateInput{}, errors.New("start_date must be YYYY-MM-DD")
	}
	if in.EndDay, err = parseDate(req.EndDate); err != nil {
		return CreateInput{}, errors.New("end_date must be YYYY-MM-DD")
	}
	return in, nil
}

func toUpdateInput(req updateMedicationRequest) (UpdateInput, error) {
	in := UpdateInput{
		Name:                req.Name,
		Dose:                req.Dose,
		RemindBeforeMinutes: req.RemindBeforeMinutes,
		Active:              req.Active,
	}

	if req.Kind != nil {
		k := Kind(strings.TrimSpace(*req.Kind))
		in.Kind = &k
	}

	// La regla se edita como unidad: si viene cualquiera de sus campos tienen
	// que venir todos los que la definen.
	if req.Mode != nil || req.IntervalHours != nil || req.TimesPerDay != nil || req.StartTime != nil {
		if req.Mode == nil || req.StartTime == nil {
			return UpdateInput{}, errors.New("editing the rule requires mode and start_time")
		}
		rule, err := parseRule(*req.Mode, intOrZero(req.IntervalHours), intOrZero(req.TimesPerDay), *req.StartTime)
		if err != nil {
			return UpdateInput{}, err
		}
		in.Rule = &rule
	}

	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return UpdateInput{}, errors.New("start_date must be YYYY-MM-DD")
		}
		in.StartDay = &d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return UpdateInput{}, errors.New("end_date must be YYYY-MM-DD")
		}
		in.EndDay = &d
	}
	if req.SelectedDates != nil {
		days, err := parseDates(*req.SelectedDates)
		if err != nil {
			return UpdateInput{}, err
		}
		in.SelectedDays = &days
	}

	return in, nil
}

func parseDates(dates []string) ([]int64, error) {
	out := make([]int64, 0, len(dates))
	for _, s := range dates {
		d, err := parseDate(s)
		if err != nil {
			return nil, errors.New("selected_dates must be YYYY-MM-DD")
		}
		out = append(out, d)
	}
	return out, nil
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func formatDate(day int64) string {
	y, m, d := recurrence.DateOf(day)
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func toMedicationResponse(m ScheduledMedication) medicationResponse {
	times := m.Times()
	timeStrs := make([]string, 0, len(times))
	for _, t := range times {
		timeStrs = append(timeStrs, t.String())
	}

	var selected []string
	if m.SelectedDaysCSV != "" {
		for _, d := range recurrence.ParseDaysCSV(m.SelectedDaysCSV) {
			selected = append(selected, formatDate(d))
		}
	}

	return medicationResponse{
		ID:                  m.ID,
		Name:                m.Name,
		Kind:                string(m.Kind),
		Dose:                m.Dose,
		Mode:                string(m.Rule.Mode),
		IntervalHours:       m.Rule.IntervalHours,
		TimesPerDay:         m.Rule.TimesPerDay,
		StartTime:           m.Rule.Start.String(),
		Times:               timeStrs,
		StartDate:           formatDate(m.StartDay),
		EndDate:             formatDate(m.EndDay),
		SelectedDates:       selected,
		RemindBeforeMinutes: m.RemindBeforeMinutes,
		Active:              m.Active,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
