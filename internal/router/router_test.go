package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medication-reminders/internal/adapters/auth/statictoken"
	"medication-reminders/internal/router"
)

func TestHTTP_EndToEnd_MedicationLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// fechas siempre a futuro para que el create registre alarmas
	start := time.Now().AddDate(0, 0, 1)
	end := time.Now().AddDate(0, 0, 3)

	// 1) Crear schedule recurrente
	medID := createMedication(t, ts.URL, map[string]any{
		"name":           "Amoxicilina",
		"kind":           "capsule",
		"dose":           "500 mg",
		"mode":           "interval",
		"interval_hours": 8,
		"start_time":     "08:00",
		"start_date":     start.Format("2006-01-02"),
		"end_date":       end.Format("2006-01-02"),
	})

	// 2) Listar
	{
		st, body := doReq(t, ts.URL, "GET", "/medications", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list medications, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 medication, got %d", len(items))
		}
	}

	// 3) Detalle con expansión derivada
	{
		st, body := doReq(t, ts.URL, "GET", "/medications/"+medID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get medication, got %d body=%s", st, string(body))
		}
		var resp struct {
			Times []string `json:"times"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Times) != 3 || resp.Times[0] != "08:00" {
			t.Fatalf("expected derived times [08:00 16:00 00:00], got %v", resp.Times)
		}
	}

	// 4) Vista por rango de fechas
	{
		st, body := doReq(t, ts.URL, "GET",
			"/medications/range?from="+start.Format("2006-01-02")+"&to="+end.Format("2006-01-02"), "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 range, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 medication in range, got %d", len(items))
		}
	}

	// 5) Editar la regla (PATCH)
	{
		st, body := doReq(t, ts.URL, "PATCH", "/medications/"+medID, "", map[string]any{
			"mode":          "count",
			"times_per_day": 2,
			"start_time":    "09:30",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch medication, got %d body=%s", st, string(body))
		}
		var resp struct {
			Times []string `json:"times"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Times) != 2 || resp.Times[0] != "09:30" || resp.Times[1] != "21:30" {
			t.Fatalf("expected times [09:30 21:30] after patch, got %v", resp.Times)
		}
	}

	// 6) Export iCalendar
	{
		st, body := doReq(t, ts.URL, "GET", "/medications/"+medID+"/calendar.ics", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 ics, got %d body=%s", st, string(body))
		}
		ics := string(body)
		if !strings.Contains(ics, "BEGIN:VCALENDAR") || !strings.Contains(ics, "RRULE") {
			t.Fatalf("unexpected ics payload: %s", ics)
		}
	}

	// 7) Registrar una toma
	doseID := recordDose(t, ts.URL, medID, map[string]any{
		"date":   start.Format("2006-01-02"),
		"time":   "09:30",
		"status": "taken",
		"notes":  "con el desayuno",
	})

	// 8) Listar tomas con filtro
	{
		st, body := doReq(t, ts.URL, "GET", "/medications/"+medID+"/doses?status=taken", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list doses, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 dose event, got %d", len(items))
		}
	}

	// 9) Anular la toma
	{
		st, body := doReq(t, ts.URL, "POST", "/medications/"+medID+"/doses/"+doseID+"/void", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 void dose, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "voided" {
			t.Fatalf("expected voided status, got %s", resp.Status)
		}
	}

	// 10) Borrar el schedule
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/medications/"+medID, "", nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete medication, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/medications/"+medID, "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_Medications_SelectedDates(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	d1 := time.Now().AddDate(0, 0, 2)
	d2 := time.Now().AddDate(0, 0, 9)

	createMedication(t, ts.URL, map[string]any{
		"name":          "Vacuna refuerzo",
		"kind":          "injection",
		"mode":          "count",
		"times_per_day": 1,
		"start_time":    "10:00",
		"selected_dates": []string{
			d1.Format("2006-01-02"),
			d2.Format("2006-01-02"),
		},
	})

	// El rango que solo cubre la primera fecha lo encuentra igual
	st, body := doReq(t, ts.URL, "GET",
		"/medications/range?from="+d1.Format("2006-01-02")+"&to="+d1.Format("2006-01-02"), "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 range, got %d body=%s", st, string(body))
	}
	var items []struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(body, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 medication in range, got %d", len(items))
	}
}

func TestHTTP_Medications_RejectsBadRule(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "POST", "/medications", "", map[string]any{
		"name":           "X",
		"mode":           "interval",
		"interval_hours": 24, // fuera de rango
		"start_time":     "08:00",
		"start_date":     "2026-06-01",
		"end_date":       "2026-06-02",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad rule, got %d", st)
	}
}

func TestHTTP_Medicamentos_Libreta(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/medicamentos", "", map[string]any{
		"nombre":     "Paracetamol",
		"cantidad":   "1 g",
		"frecuencia": "cada 12 horas",
		"hora":       "08:00",
		"tipo":       "pastilla",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medicamento, got %d body=%s", st, string(body))
	}
	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &created)
	if created.ID == "" {
		t.Fatalf("missing medicamento id body=%s", string(body))
	}

	// marcar tomado
	st, body = doReq(t, ts.URL, "POST", "/medicamentos/"+created.ID+"/tomado", "", map[string]any{
		"tomado": true,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 mark tomado, got %d body=%s", st, string(body))
	}
	var marked struct {
		Tomado bool `json:"tomado"`
	}
	_ = json.Unmarshal(body, &marked)
	if !marked.Tomado {
		t.Fatalf("expected tomado=true")
	}

	st, _ = doReq(t, ts.URL, "DELETE", "/medicamentos/"+created.ID, "", nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 delete medicamento, got %d", st)
	}
}

func TestHTTP_Auth_RequiresBearerToken(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: statictoken.New("s3cret"),
	}))
	defer ts.Close()

	// sin token => 401
	st, _ := doReq(t, ts.URL, "GET", "/medications", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", st)
	}

	// token incorrecto => 401
	st, _ = doReq(t, ts.URL, "GET", "/medications", "wrong", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", st)
	}

	// token correcto => 200
	st, _ = doReq(t, ts.URL, "GET", "/medications", "s3cret", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", st)
	}

	// /health queda abierto
	st, _ = doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 health without token, got %d", st)
	}
}

func createMedication(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/medications", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medication, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID json.Number `json:"id"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	_ = dec.Decode(&resp)
	if resp.ID.String() == "" || resp.ID.String() == "0" {
		t.Fatalf("create medication: missing id body=%s", string(body))
	}
	return resp.ID.String()
}

func recordDose(t *testing.T, baseURL, medID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/medications/"+medID+"/doses", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 record dose, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("record dose: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
