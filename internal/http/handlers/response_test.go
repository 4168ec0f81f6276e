package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/chatbot-docstore/internal/blob"
	"github.com/tbourn/chatbot-docstore/internal/repo"
	"github.com/tbourn/chatbot-docstore/internal/services"
)

func Test_fail_500_LogsAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-500" || resp.Code != ErrCodeInternal || resp.Message != "kaboom" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error log, got: %s", buf.String())
	}
}

func Test_failErr_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("user 1: %w", repo.ErrUserNotFound), http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("x: %w", repo.ErrAttributeNotFound), http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("get: %w", blob.ErrObjectNotExist), http.StatusNotFound, ErrCodeNotFound},
		{repo.ErrNoCurrentDialog, http.StatusNotFound, ErrCodeNoCurrentDialog},
		{services.ErrUnknownChatMode, http.StatusBadRequest, ErrCodeUnknownChatMode},
		{services.ErrInvalidTokenCount, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrEmptyMessage, http.StatusBadRequest, ErrCodeBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeStorage},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { failErr(c, tc.err) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		var resp ErrorResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if w.Code != tc.status || resp.Code != tc.code {
			t.Errorf("%v -> %d %q, want %d %q", tc.err, w.Code, resp.Code, tc.status, tc.code)
		}
	}
}

func Test_Fail_And_SuccessHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/nf", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope") })
	r.GET("/ok", func(c *gin.Context) { ok(c, http.StatusOK, gin.H{"a": 1}) })
	r.GET("/nc", func(c *gin.Context) { noContent(c) })

	for path, want := range map[string]int{"/nf": 404, "/ok": 200, "/nc": 204} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Errorf("%s -> %d, want %d", path, w.Code, want)
		}
	}
}
