package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	core "distr-calc/internal/service/core"
	types "distr-calc/internal/service/types"
	"distr-calc/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := storage.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })
	return NewServer(core.NewCalculator(store, nil), nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

func TestCalculateHandler(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/calculate", `{"expression":"2^3^2"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp types.CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 512.0, *resp.Result)
	assert.Equal(t, "512", resp.Display)
}

func TestCalculateHandler_EvaluationErrors(t *testing.T) {
	tests := []struct {
		expression string
		kind       string
		message    string
	}{
		{"10/0", "domain", "division by zero or invalid operation"},
		{"5+", "parse", "invalid expression format"},
		{"", "parse", "invalid expression format"},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			s := newTestServer(t)
			body, err := json.Marshal(types.CalculateRequest{Expression: tt.expression})
			require.NoError(t, err)

			w := do(t, s, http.MethodPost, "/api/v1/calculate", string(body))
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var resp types.CalculateResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, tt.message, resp.Error)
			assert.NotEmpty(t, resp.ID)
			assert.Nil(t, resp.Result)

			got := do(t, s, http.MethodGet, "/api/v1/expressions/"+resp.ID, "")
			assert.Equal(t, http.StatusOK, got.Code)
		})
	}
}

func TestCalculateHandler_InvalidBody(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/calculate", `{"expression":`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
}

func TestCalculateHandler_InfiniteResult(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/v1/calculate", `{"expression":"10^400"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp types.CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Result)
	assert.Equal(t, "+Inf", resp.Display)
}

func TestExpressionsHandlers(t *testing.T) {
	s := newTestServer(t)

	var ids []string
	for _, expr := range []string{"1+1", "2*3", "4/0"} {
		w := do(t, s, http.MethodPost, "/api/v1/calculate", `{"expression":"`+expr+`"}`)
		var resp types.CalculateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		ids = append(ids, resp.ID)
	}

	w := do(t, s, http.MethodGet, "/api/v1/expressions", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list types.ExpressionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Expressions, 3)
	for i, rec := range list.Expressions {
		assert.Equal(t, ids[i], rec.ID)
	}
	assert.Equal(t, "2*3", list.Expressions[1].Expression)
	assert.Equal(t, types.StatusError, list.Expressions[2].Status)

	w = do(t, s, http.MethodGet, "/api/v1/expressions/"+ids[1], "")
	require.Equal(t, http.StatusOK, w.Code)
	var one types.ExpressionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	require.NotNil(t, one.Expression.Result)
	assert.Equal(t, 6.0, *one.Expression.Result)

	w = do(t, s, http.MethodGet, "/api/v1/expressions/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodDelete, "/api/v1/expressions", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/api/v1/expressions", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list.Expressions)
}

func TestHealthHandler(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
