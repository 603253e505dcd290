package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"termcalc/internal/observability"
	"termcalc/internal/session"
	"termcalc/internal/testutil"
)

func newTestRouter(t *testing.T, max int) (http.Handler, *session.Store) {
	t.Helper()
	observability.Logger = zap.NewNop()
	if err := InitMetrics(); err != nil {
		t.Fatalf("initializing metrics: %v", err)
	}

	store := session.NewStore(time.Minute, max)
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(store))
	return r, store
}

func createSession(t *testing.T, h http.Handler) SessionResponse {
	t.Helper()
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/sessions", nil), h)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	return resp
}

func pressKeys(t *testing.T, h http.Handler, id string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(http.MethodPost, "/sessions/"+id+"/keys", body)
	return testutil.ExecuteRequest(req, h)
}

func TestCreateSession(t *testing.T) {
	h, store := newTestRouter(t, 4)

	resp := createSession(t, h)
	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Fatalf("expected UUID id, got %q: %v", resp.ID, err)
	}
	if resp.View.Display != "0" || resp.View.Expression != "Enter digits and choose an operator" {
		t.Fatalf("expected fresh view, got %+v", resp.View)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 stored session, got %d", store.Len())
	}
}

func TestCreateSessionAtCapacity(t *testing.T) {
	h, _ := newTestRouter(t, 1)
	createSession(t, h)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/sessions", nil), h)
	testutil.CheckResponseCode(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, w.Body, &body)
	if body["error"] != "too many sessions" {
		t.Fatalf("expected capacity error, got %v", body)
	}
}

func TestPressEvaluatesWithPrecedence(t *testing.T) {
	h, _ := newTestRouter(t, 4)
	id := createSession(t, h).ID

	w := pressKeys(t, h, id, `{"input":"10+10*5/4+45="}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp KeysResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.View.Display != "67.5" {
		t.Fatalf("expected display %q, got %q", "67.5", resp.View.Display)
	}
	if !resp.View.JustEvaluated || resp.Closed {
		t.Fatalf("unexpected flags %+v", resp)
	}
	if resp.Applied != 13 {
		t.Fatalf("expected 13 applied keys, got %d", resp.Applied)
	}
}

func TestPressNamedKeysBeforeInput(t *testing.T) {
	h, _ := newTestRouter(t, 4)
	id := createSession(t, h).ID

	w := pressKeys(t, h, id, `{"keys":["9","9","Backspace","x"],"input":"3"}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp KeysResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.View.Expression != "9 × 3" {
		t.Fatalf("expected expression %q, got %q", "9 × 3", resp.View.Expression)
	}
}

func TestPressDivideByZeroReportsEngineError(t *testing.T) {
	h, _ := newTestRouter(t, 4)
	id := createSession(t, h).ID

	w := pressKeys(t, h, id, `{"input":"8/0=5"}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp KeysResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if !resp.View.Error || !strings.Contains(resp.View.Display, "Cannot divide") {
		t.Fatalf("expected divide error in view, got %+v", resp.View)
	}

	w = pressKeys(t, h, id, `{"keys":["A"]}`)
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.View.Error || resp.View.Display != "0" {
		t.Fatalf("expected clear to reset the session, got %+v", resp.View)
	}
}

func TestPressQuitClosesSession(t *testing.T) {
	h, store := newTestRouter(t, 4)
	id := createSession(t, h).ID

	w := pressKeys(t, h, id, `{"input":"1q"}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp KeysResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if !resp.Closed {
		t.Fatal("expected session to be closed")
	}
	if store.Len() != 0 {
		t.Fatalf("expected session to be removed, got %d", store.Len())
	}

	w = pressKeys(t, h, id, `{"input":"1"}`)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestPressRejectsBadRequests(t *testing.T) {
	h, _ := newTestRouter(t, 4)
	id := createSession(t, h).ID

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed json", body: `{`, want: "invalid request body"},
		{name: "unknown key", body: `{"keys":["ArrowUp"]}`, want: `unknown key "ArrowUp"`},
		{name: "empty batch", body: `{}`, want: "no keys provided"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := pressKeys(t, h, id, tc.body)
			testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			testutil.DecodeJSONBody(t, w.Body, &body)
			if body["error"] != tc.want {
				t.Fatalf("expected error %q, got %q", tc.want, body["error"])
			}
		})
	}
}

func TestPressRejectsOversizedBody(t *testing.T) {
	h, _ := newTestRouter(t, 4)
	id := createSession(t, h).ID

	w := pressKeys(t, h, id, `{"input":"`+strings.Repeat("1", maxMessageSize)+`"}`)
	testutil.CheckResponseCode(t, http.StatusRequestEntityTooLarge, w.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, w.Body, &body)
	if body["error"] != "request body too large" {
		t.Fatalf("expected size error, got %v", body)
	}
}

func TestPressAfterDeleteIsNotFound(t *testing.T) {
	h, store := newTestRouter(t, 4)
	id := createSession(t, h).ID
	sess, _ := store.Get(id)
	store.Delete(id)

	// A handler that resolved the session before the delete still refuses it.
	_, err := NewHandler(store).apply(context.Background(), sess, KeysRequest{Input: "1"})
	if !errors.Is(err, session.ErrClosed) {
		t.Fatalf("expected session.ErrClosed, got %v", err)
	}
}

func TestGetAndDeleteSession(t *testing.T) {
	h, _ := newTestRouter(t, 4)
	id := createSession(t, h).ID
	pressKeys(t, h, id, `{"input":"42+"}`)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil), h)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var view session.View
	testutil.DecodeJSONBody(t, w.Body, &view)
	if view.Expression != "42 +" || view.Display != "42" {
		t.Fatalf("unexpected view %+v", view)
	}

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, "/sessions/"+id, nil), h)
	testutil.CheckResponseCode(t, http.StatusNoContent, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, "/sessions/"+id, nil), h)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil), h)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestUnknownSession(t *testing.T) {
	h, _ := newTestRouter(t, 4)

	body, _ := json.Marshal(KeysRequest{Input: "1"})
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+uuid.New().String()+"/keys", bytes.NewReader(body))
	w := testutil.ExecuteRequest(req, h)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp["error"] != "session not found" {
		t.Fatalf("expected not found error, got %v", resp)
	}
}
