package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khademul4765/arther-hiseb-sub001/internal/undo"
	"github.com/khademul4765/arther-hiseb-sub001/internal/validator"
)

// Fixed IDs reused across handler tests.
const (
	testUserID        = "01923456-7890-7abc-8def-0123456789ab"
	testAccountID     = "11111111-2222-4333-8444-555555555555"
	testCategoryID    = "22222222-3333-4444-8555-666666666666"
	testTransactionID = "33333333-4444-4555-8666-777777777777"
)

type mockAuditService struct{}

func (m *mockAuditService) Log(_ string, _, _, _, _ string, _ map[string]interface{}) {}

// manualScheduler never fires on its own, so pending deletes stay pending
// for the duration of a test.
type manualTimer struct{ stopped bool }

func (t *manualTimer) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

type manualScheduler struct {
	timers []*manualTimer
	fns    []func()
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) undo.Timer {
	t := &manualTimer{}
	s.timers = append(s.timers, t)
	s.fns = append(s.fns, f)
	return t
}

func newTestUndoManager() *undo.Manager {
	return undo.NewManager(5*time.Second, &manualScheduler{})
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
