package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedact(t *testing.T) {
	in := "token=123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw0 key=sk-abcdefghijklmnopqrstu mail=a.b@example.com tel=212-555-1212"
	out := redact(in)
	for _, leak := range []string{"AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw0", "sk-abcdefghijklmnopqrstu", "a.b@example.com", "555-1212"} {
		if strings.Contains(out, leak) {
			t.Fatalf("redacted output still contains %q: %s", leak, out)
		}
	}
	for _, marker := range []string{"[REDACTED:token]", "[REDACTED:key]", "[REDACTED:email]", "[REDACTED:phone]"} {
		if !strings.Contains(out, marker) {
			t.Fatalf("missing %s in %s", marker, out)
		}
	}
	if redact("") != "" {
		t.Fatal("empty input should stay empty")
	}
}

func TestRedactingLogger_MasksHeadersAndScopesLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Telegram-Bot-Api-Secret-Token"}}))
	r.GET("/users/:id", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("inside")
		c.Status(http.StatusNotFound)
	})

	w := serve(r, http.MethodGet, "/users/42?mail=a@b.com", map[string]string{
		"Authorization":                   "Bearer secret",
		"X-Telegram-Bot-Api-Secret-Token": "s3cr3t",
		requestIDHeader:                   "rid-9",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}

	out := buf.String()
	if strings.Contains(out, "secret") || strings.Contains(out, "s3cr3t") || strings.Contains(out, "a@b.com") {
		t.Fatalf("log leaked sensitive values: %s", out)
	}
	if !strings.Contains(out, `"message":"inside"`) {
		t.Fatalf("handler log line missing: %s", out)
	}

	line := lastLogLine(t, buf)
	if line["level"] != "warn" || line["path"] != "/users/:id" || line["user_id"] != "42" || line["request_id"] != "rid-9" {
		t.Fatalf("access line = %v", line)
	}
	hdrs, _ := line["headers"].(map[string]any)
	if hdrs["Authorization"] != "[REDACTED]" {
		t.Fatalf("authorization not masked: %v", hdrs)
	}
}

func TestRedactingLogger_ErrorLevelOn5xx(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })
	serve(r, http.MethodGet, "/fail", nil)

	if line := lastLogLine(t, buf); line["level"] != "error" {
		t.Fatalf("level = %v", line["level"])
	}
}
