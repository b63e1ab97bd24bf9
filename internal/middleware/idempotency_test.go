package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerfile/ledgerfile/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *int) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))

	calls := 0
	app.Post("/deposits", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"calls": calls})
	})

	return app, &calls
}

func TestIdempotencyIsOptIn(t *testing.T) {
	app, calls := setupTestApp(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/deposits", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d: status %d", i, resp.StatusCode)
		}
	}
	if *calls != 2 {
		t.Fatalf("requests without a key must not be deduplicated, handler ran %d times", *calls)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app, calls := setupTestApp(t)

	send := func() (int, string) {
		req := httptest.NewRequest(fiber.MethodPost, "/deposits", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, "txn-1")
		req.Header.Set(fiber.HeaderAuthorization, "Bearer tok")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		defer resp.Body.Close()
		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		return resp.StatusCode, string(payload)
	}

	status1, body1 := send()
	status2, body2 := send()

	if status1 != fiber.StatusOK || status2 != status1 {
		t.Fatalf("statuses: %d then %d", status1, status2)
	}
	if body1 != body2 {
		t.Fatalf("expected replayed body %q, got %q", body1, body2)
	}
	if *calls != 1 {
		t.Fatalf("handler ran %d times for the same key", *calls)
	}
}

func TestIdempotencyScopesKeysByToken(t *testing.T) {
	app, calls := setupTestApp(t)

	for _, token := range []string{"Bearer bob", "Bearer carol"} {
		req := httptest.NewRequest(fiber.MethodPost, "/deposits", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, "txn-1")
		req.Header.Set(fiber.HeaderAuthorization, token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request for %s: %v", token, err)
		}
		resp.Body.Close()
	}
	if *calls != 2 {
		t.Fatalf("different sessions must not share keys, handler ran %d times", *calls)
	}
}
