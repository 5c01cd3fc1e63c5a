package handler_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/timekeep/timekeep/internal/api"
	"github.com/timekeep/timekeep/internal/domain"
	"github.com/timekeep/timekeep/internal/service"
	"github.com/timekeep/timekeep/internal/store"
)

// testSetup provides common test infrastructure.
type testSetup struct {
	db     *sql.DB
	router *chi.Mux
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := service.NewTaskService(store.NewTaskRepository(db))
	return &testSetup{db: db, router: api.NewRouter(svc)}
}

func (s *testSetup) doRequest(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			reqBody.WriteString(raw)
		} else if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decodeTask(t *testing.T, rr *httptest.ResponseRecorder) *domain.Task {
	t.Helper()

	var task domain.Task
	if err := json.NewDecoder(rr.Body).Decode(&task); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}
	return &task
}

func TestHealth_ReturnsServiceIdentity(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.doRequest(t, "GET", "/health", nil)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
	if resp["service"] != "time-tracker-api" {
		t.Errorf("expected service 'time-tracker-api', got %q", resp["service"])
	}
}

func TestUpsertTask_CreatesAndReturnsStoredTask(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.doRequest(t, "POST", "/api/tasks", map[string]interface{}{
		"id":          "t1",
		"name":        "Writing",
		"duration":    1800,
		"sessionDate": "2024-01-15",
		"timerLogs":   []map[string]interface{}{{"event": "start", "timestamp": 1705312800000}},
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	task := decodeTask(t, rr)
	if task.ID != "t1" || task.Name != "Writing" || task.Duration != 1800 {
		t.Errorf("unexpected task: %+v", task)
	}
	if len(task.TimerLogs) != 1 {
		t.Errorf("expected 1 timer log, got %d", len(task.TimerLogs))
	}
	if task.CreatedAt == 0 || task.UpdatedAt == 0 {
		t.Errorf("expected timestamps populated, got createdAt=%d updatedAt=%d", task.CreatedAt, task.UpdatedAt)
	}
}

func TestUpsertTask_DefaultsForOmittedFields(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.doRequest(t, "POST", "/api/tasks", map[string]interface{}{"id": "t1"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	// Capture the raw body before decodeTask drains the recorder buffer.
	body := rr.Body.String()

	task := decodeTask(t, rr)
	if task.Name != "Untitled" {
		t.Errorf("expected default name 'Untitled', got %q", task.Name)
	}
	if task.SessionDate != time.Now().Format(domain.DateLayout) {
		t.Errorf("expected today's sessionDate, got %q", task.SessionDate)
	}

	// The wire arrays must be [], never null.
	if !strings.Contains(body, `"timerLogs":[]`) || !strings.Contains(body, `"subtasks":[]`) {
		t.Errorf("expected empty JSON arrays in body: %s", body)
	}
}

func TestUpsertTask_MissingID(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.doRequest(t, "POST", "/api/tasks", map[string]interface{}{"name": "No ID"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "Task ID is required" {
		t.Errorf("expected error 'Task ID is required', got %q", resp["error"])
	}
}

func TestUpsertTask_MalformedBody(t *testing.T) {
	setup := newTestSetup(t)

	for _, body := range []interface{}{nil, "{not json", `"just a string"`} {
		rr := setup.doRequest(t, "POST", "/api/tasks", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %v: expected status 400, got %d", body, rr.Code)
		}
	}
}

func TestUpsertTask_ReplacesOmittedSubtasks(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.doRequest(t, "POST", "/api/tasks", map[string]interface{}{
		"id":       "t1",
		"name":     "A",
		"subtasks": []map[string]interface{}{{"id": "s1", "name": "child"}},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("first upsert: expected 201, got %d", rr.Code)
	}

	rr = setup.doRequest(t, "POST", "/api/tasks", map[string]interface{}{
		"id":   "t1",
		"name": "B",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("second upsert: expected 201, got %d", rr.Code)
	}

	rr = setup.doRequest(t, "GET", "/api/tasks/t1", nil)
	task := decodeTask(t, rr)
	if task.Name != "B" {
		t.Errorf("expected name 'B', got %q", task.Name)
	}
	if len(task.Subtasks) != 0 {
		t.Errorf("expected subtasks wiped by omission, got %d", len(task.Subtasks))
	}
}

func TestGetTask_NotFound(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.doRequest(t, "GET", "/api/tasks/missing", nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "Task not found" {
		t.Errorf("expected error 'Task not found', got %q", resp["error"])
	}
}

func TestDeleteTask_EchoesID(t *testing.T) {
	setup := newTestSetup(t)

	setup.doRequest(t, "POST", "/api/tasks", map[string]interface{}{"id": "t1"})

	rr := setup.doRequest(t, "DELETE", "/api/tasks/t1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["message"] != "Task deleted" || resp["id"] != "t1" {
		t.Errorf("unexpected response: %v", resp)
	}

	// The row is gone.
	rr = setup.doRequest(t, "GET", "/api/tasks/t1", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.doRequest(t, "DELETE", "/api/tasks/missing", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestListTasks_EmptyBodyIsArray(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.doRequest(t, "GET", "/api/tasks", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("expected bare [] body, got %q", rr.Body.String())
	}
}

func TestListTasks_DateFilter(t *testing.T) {
	setup := newTestSetup(t)

	setup.doRequest(t, "POST", "/api/tasks", map[string]interface{}{"id": "a", "sessionDate": "2024-01-15"})
	setup.doRequest(t, "POST", "/api/tasks", map[string]interface{}{"id": "b", "sessionDate": "2024-01-16"})

	rr := setup.doRequest(t, "GET", "/api/tasks?date=2024-01-15", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var tasks []*domain.Task
	if err := json.NewDecoder(rr.Body).Decode(&tasks); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "a" {
		t.Errorf("expected exactly task 'a', got %+v", tasks)
	}
}

func TestSeedThenClear(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.doRequest(t, "POST", "/api/tasks/seed", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("seed: expected status 200, got %d", rr.Code)
	}

	var seedResp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&seedResp); err != nil {
		t.Fatalf("failed to decode seed response: %v", err)
	}
	if !regexp.MustCompile(`^Seeded \d+ tasks across 30 days$`).MatchString(seedResp["message"]) {
		t.Errorf("unexpected seed message %q", seedResp["message"])
	}

	rr = setup.doRequest(t, "GET", "/api/tasks", nil)
	var tasks []*domain.Task
	if err := json.NewDecoder(rr.Body).Decode(&tasks); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(tasks) == 0 {
		t.Fatal("expected seeded tasks")
	}

	rr = setup.doRequest(t, "DELETE", "/api/tasks/clear", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("clear: expected status 200, got %d", rr.Code)
	}

	var clearResp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&clearResp); err != nil {
		t.Fatalf("failed to decode clear response: %v", err)
	}
	if !regexp.MustCompile(`^Cleared \d+ tasks$`).MatchString(clearResp["message"]) {
		t.Errorf("unexpected clear message %q", clearResp["message"])
	}

	rr = setup.doRequest(t, "GET", "/api/tasks", nil)
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("expected empty list after clear, got %q", rr.Body.String())
	}
}

func TestCORS_AllowsAnyOrigin(t *testing.T) {
	setup := newTestSetup(t)

	req := httptest.NewRequest("OPTIONS", "/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rr := httptest.NewRecorder()
	setup.router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin '*', got %q", got)
	}
}
