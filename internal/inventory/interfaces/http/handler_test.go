package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	authdomain "github.com/wyfcoding/inventory/internal/auth/domain"
	authhttp "github.com/wyfcoding/inventory/internal/auth/interfaces/http"
	"github.com/wyfcoding/inventory/internal/inventory/application"
	"github.com/wyfcoding/inventory/internal/inventory/domain"
)

type fakeProductRepo struct {
	items      []*domain.Product
	total      int64
	lastOffset int
	lastLimit  int
	created    []*domain.Product
	createErr  error
	deleteErr  error
}

func (f *fakeProductRepo) Search(ctx context.Context, userID, nameContains string, offset, limit int) ([]*domain.Product, int64, error) {
	f.lastOffset = offset
	f.lastLimit = limit
	return f.items, f.total, nil
}

func (f *fakeProductRepo) ListAll(ctx context.Context, userID string) ([]*domain.Product, error) {
	return f.items, nil
}

func (f *fakeProductRepo) Recent(ctx context.Context, userID string, n int) ([]*domain.Product, error) {
	return f.items, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, product)
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, userID, id string) error {
	return f.deleteErr
}

// asUser replaces the session middleware so handler behavior can be
// exercised without a real auth stack.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(authhttp.CurrentUserKey, &authdomain.User{ID: id, Email: id + "@example.com"})
	}
}

func newTestRouter(repo *fakeProductRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(
		application.NewQueryService(repo),
		application.NewDashboardService(repo),
		application.NewCommandService(repo, nil),
	)
	h.RegisterRoutes(r.Group("/api"), asUser("u1"))
	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListPageParsing(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantPage   int
		wantOffset int
	}{
		{"missing page", "", 1, 0},
		{"non-numeric page", "?page=abc", 1, 0},
		{"empty page value", "?page=", 1, 0},
		{"zero page", "?page=0", 1, 0},
		{"negative page", "?page=-3", 1, 0},
		{"second page", "?page=2", 2, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeProductRepo{}
			r := newTestRouter(repo)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/inventory"+tc.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var body struct {
				Data struct {
					Page int `json:"page"`
				} `json:"data"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.Data.Page != tc.wantPage {
				t.Fatalf("expected page %d, got %d", tc.wantPage, body.Data.Page)
			}
			if repo.lastOffset != tc.wantOffset {
				t.Fatalf("expected offset %d, got %d", tc.wantOffset, repo.lastOffset)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	t.Run("valid input inserts then redirects to the listing", func(t *testing.T) {
		repo := &fakeProductRepo{}
		w := postForm(newTestRouter(repo), "/api/v1/inventory", url.Values{
			"name":     {"Widget"},
			"price":    {"9.99"},
			"quantity": {"3"},
		})

		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
		if got := w.Header().Get("Location"); got != InventoryRedirect {
			t.Fatalf("expected redirect to %q, got %q", InventoryRedirect, got)
		}
		if len(repo.created) != 1 || repo.created[0].Name != "Widget" {
			t.Fatalf("expected one created product, got %+v", repo.created)
		}
		if repo.created[0].UserID != "u1" {
			t.Fatalf("product not owned by the session user: %q", repo.created[0].UserID)
		}
	})

	t.Run("invalid input is a 400 with field messages and no insert", func(t *testing.T) {
		repo := &fakeProductRepo{}
		w := postForm(newTestRouter(repo), "/api/v1/inventory", url.Values{
			"name":     {""},
			"price":    {"abc"},
			"quantity": {"1"},
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		var body struct {
			Fields map[string]string `json:"fields"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Fields["name"] == "" || body.Fields["price"] == "" {
			t.Fatalf("expected name and price messages, got %v", body.Fields)
		}
		if len(repo.created) != 0 {
			t.Fatal("nothing may be written on invalid input")
		}
	})

	t.Run("sku collision is a 409", func(t *testing.T) {
		repo := &fakeProductRepo{createErr: domain.ErrDuplicateSKU}
		w := postForm(newTestRouter(repo), "/api/v1/inventory", url.Values{
			"name":     {"Widget"},
			"sku":      {"W-1"},
			"price":    {"9.99"},
			"quantity": {"3"},
		})

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("store failure is a 500 without a redirect", func(t *testing.T) {
		repo := &fakeProductRepo{createErr: errors.New("connection reset")}
		w := postForm(newTestRouter(repo), "/api/v1/inventory", url.Values{
			"name":     {"Widget"},
			"price":    {"9.99"},
			"quantity": {"3"},
		})

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("delete redirects to the listing", func(t *testing.T) {
		repo := &fakeProductRepo{}
		w := postForm(newTestRouter(repo), "/api/v1/inventory/p1/delete", url.Values{})

		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
		if got := w.Header().Get("Location"); got != InventoryRedirect {
			t.Fatalf("expected redirect to %q, got %q", InventoryRedirect, got)
		}
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		repo := &fakeProductRepo{deleteErr: errors.New("connection reset")}
		w := postForm(newTestRouter(repo), "/api/v1/inventory/p1/delete", url.Values{})

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}
