package helpers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cayo/errs"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func TestParsePage(t *testing.T) {
	p, err := ParsePage("", "")
	if err != nil || p.Page != 1 || p.Size != DefaultPageSize {
		t.Fatalf("defaults = %+v, %v", p, err)
	}
	p, err = ParsePage("3", "500")
	if err != nil || p.Page != 3 || p.Size != MaxPageSize {
		t.Fatalf("clamped = %+v, %v", p, err)
	}
	for _, bad := range [][2]string{{"0", ""}, {"x", ""}, {"", "-5"}, {"", "ten"}} {
		if _, err := ParsePage(bad[0], bad[1]); !errs.Is(err, errs.Validation) {
			t.Fatalf("ParsePage(%q, %q) err = %v", bad[0], bad[1], err)
		}
	}
}

func TestPaginate(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}

	l := Paginate(rows, Page{Page: 2, Size: 2})
	if l.Total != 5 || len(l.Rows) != 2 || l.Rows[0] != 3 {
		t.Fatalf("page 2 = %+v", l)
	}
	l = Paginate(rows, Page{Page: 3, Size: 2})
	if len(l.Rows) != 1 || l.Rows[0] != 5 {
		t.Fatalf("last page = %+v", l)
	}
	l = Paginate(rows, Page{Page: 9, Size: 2})
	if l.Rows == nil || len(l.Rows) != 0 || l.Total != 5 {
		t.Fatalf("past the end = %+v", l)
	}
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatal(err)
	}
	lastMoment := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	if !w.Contains(lastMoment) || !w.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("window %+v misses its bounds", w)
	}
	if w.Contains(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("window leaks into the next day")
	}

	w, err = ParseWindow("", "2025-03-01T12:00:00Z")
	if err != nil || !w.From.IsZero() || w.To.Hour() != 12 {
		t.Fatalf("open from = %+v, %v", w, err)
	}

	for _, bad := range [][2]string{{"yesterday", ""}, {"", "2025-13-01"}, {"2025-02-01", "2025-01-01"}} {
		if _, err := ParseWindow(bad[0], bad[1]); !errs.Is(err, errs.Validation) {
			t.Fatalf("ParseWindow(%q, %q) err = %v", bad[0], bad[1], err)
		}
	}
}

func TestMatches(t *testing.T) {
	if !Matches("", "anything") || !Matches("LEO", "Leon") || Matches("pep", "Leon", "leon@x.io") {
		t.Fatal("Matches is off")
	}
}

func TestGenerateSecret(t *testing.T) {
	s, err := GenerateSecret(16)
	if err != nil || len(s) != 16 {
		t.Fatalf("secret = %q, %v", s, err)
	}
	for _, r := range s {
		if !strings.ContainsRune(secretAlphabet, r) {
			t.Fatalf("unexpected rune %q", r)
		}
	}
}

func TestErrorEnvelope(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/store", func(c *fiber.Ctx) error {
		return errs.NewStoreUnavailable(io.ErrUnexpectedEOF)
	})

	cases := []struct {
		method string
		path   string
		status int
		code   string
		retry  bool
	}{
		{"GET", "/store", 503, "STORE_UNAVAILABLE", true},
		{"GET", "/nowhere", 404, "NOT_FOUND", false},
		{"DELETE", "/store", 400, "VALIDATION_ERROR", false},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(tc.method, tc.path, nil))
		if err != nil {
			t.Fatal(err)
		}
		var body struct {
			Success   bool   `json:"success"`
			Code      string `json:"code"`
			Retriable bool   `json:"retriable"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		if resp.StatusCode != tc.status || body.Success || body.Code != tc.code || body.Retriable != tc.retry {
			t.Fatalf("%s %s: status %d body %+v", tc.method, tc.path, resp.StatusCode, body)
		}
	}
}
