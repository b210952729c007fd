package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
	"github.com/jaolave/ml-challenge-frontend/internal/config"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(config.BackendConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.BackendConfig{BaseURL: "   "})
	if !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("expected ErrNoBaseURL, got: %v", err)
	}
}

func TestGetProduct_UnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	var capturedReq *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		_, _ = w.Write([]byte(`{"data": {"id": 42, "title": "Celular Samsung", "images": ["a.webp"]}}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	product, err := client.GetProduct(context.Background(), 42)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}

	if capturedReq == nil {
		t.Fatal("expected request to be captured")
	}
	if capturedReq.URL.Path != "/products/42" {
		t.Fatalf("unexpected path: %s", capturedReq.URL.Path)
	}
	if got := capturedReq.Header.Get("Accept"); got != "application/json" {
		t.Fatalf("unexpected accept header: %q", got)
	}
	if product.ID != 42 || product.Title != "Celular Samsung" {
		t.Fatalf("unexpected product: %+v", product)
	}
	if len(product.Images) != 1 || product.Images[0] != "a.webp" {
		t.Fatalf("unexpected images: %v", product.Images)
	}
}

func TestGetProduct_BareBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 7, "title": "Sin envoltura"}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	product, err := client.GetProduct(context.Background(), 7)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.ID != 7 || product.Title != "Sin envoltura" {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestGetProduct_GarbagePayloadFallsBack(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"not a product"`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	product, err := client.GetProduct(context.Background(), 7)
	if err != nil {
		t.Fatalf("a bad payload should not error: %v", err)
	}
	if product.ID != 0 || product.Title != catalog.InvalidProductTitle {
		t.Fatalf("expected fallback product, got: %+v", product)
	}
}

func TestListProducts_ArrayShape(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"id": 1, "title": "Uno"}, {"id": 2, "title": "Dos"}]}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 2 || products[0].ID != 1 || products[1].Title != "Dos" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestListProducts_KeyedShape(t *testing.T) {
	t.Parallel()

	// Numeric keys sort numerically, so "10" lands after "2". Entries
	// without an id get it backfilled from their key.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"10": {"title": "Diez"},
			"2": {"id": 2, "title": "Dos"},
			"featured": {"id": 99, "title": "Destacado"}
		}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}

	ids := make([]int, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	if !reflect.DeepEqual(ids, []int{2, 10, 99}) {
		t.Fatalf("unexpected order: %+v", products)
	}
	if products[1].Title != "Diez" {
		t.Fatalf("unexpected backfilled entry: %+v", products[1])
	}
}

func TestListProducts_UnknownShapeIsEmpty(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`42`, `"products"`, `null`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		client := newTestClient(t, server)
		products, err := client.ListProducts(context.Background())
		server.Close()
		if err != nil {
			t.Fatalf("list products with body %s: %v", body, err)
		}
		if products == nil || len(products) != 0 {
			t.Fatalf("expected empty list for body %s, got: %+v", body, products)
		}
	}
}

func TestGet_StatusErrorWithServerMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "product service exploded"}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	_, err := client.GetOffer(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got: %T", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status code: %d", statusErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "product service exploded") {
		t.Fatalf("expected server message in error, got: %v", err)
	}
}

func TestGet_StatusErrorWithoutMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain text", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	_, err := client.GetSeller(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 502 Bad Gateway") {
		t.Fatalf("expected status text fallback, got: %v", err)
	}
}

func TestGet_RequestErrorWhenUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GetReviews(context.Background(), 1)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got: %v", err)
	}
	if reqErr.Unwrap() == nil {
		t.Fatal("expected wrapped transport error")
	}
	if !strings.Contains(err.Error(), "could not reach the product service") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestFetchBundle_AllEndpoints(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		switch r.URL.Path {
		case "/products/7":
			_, _ = w.Write([]byte(`{"id": 7, "title": "Celular"}`))
		case "/product_offers/7":
			_, _ = w.Write([]byte(`{"variants": [{"id": 70, "stock": 5, "pricing": {"COP": {"price": 100}}}]}`))
		case "/questions/7":
			_, _ = w.Write([]byte(`[{"id": 1, "question": "¿Funciona?"}]`))
		case "/reviews/7":
			_, _ = w.Write([]byte(`{"rating": 4.5, "reviewCount": 10, "reviews": []}`))
		case "/payment_methods/7":
			_, _ = w.Write([]byte(`{"credit": [{"name": "Visa"}], "debit": [], "cash": []}`))
		case "/sellers/7":
			_, _ = w.Write([]byte(`{"name": "Tienda", "followers": 10}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	bundle, err := client.FetchBundle(context.Background(), 7)
	if err != nil {
		t.Fatalf("fetch bundle: %v", err)
	}

	if bundle.Product.Title != "Celular" {
		t.Fatalf("unexpected product: %+v", bundle.Product)
	}
	if len(bundle.Offer.Variants) != 1 || bundle.Offer.Variants[0].ID != 70 {
		t.Fatalf("unexpected offer: %+v", bundle.Offer)
	}
	if len(bundle.Questions) != 1 || bundle.Questions[0].ID != "1" {
		t.Fatalf("unexpected questions: %+v", bundle.Questions)
	}
	if bundle.Reviews.Rating != 4.5 {
		t.Fatalf("unexpected reviews: %+v", bundle.Reviews)
	}
	if len(bundle.PaymentMethods.Credit) != 1 {
		t.Fatalf("unexpected payment methods: %+v", bundle.PaymentMethods)
	}
	if bundle.Seller.Name != "Tienda" {
		t.Fatalf("unexpected seller: %+v", bundle.Seller)
	}

	mu.Lock()
	defer mu.Unlock()
	sort.Strings(paths)
	want := []string{"/payment_methods/7", "/product_offers/7", "/products/7", "/questions/7", "/reviews/7", "/sellers/7"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("unexpected request paths: %v", paths)
	}
}

func TestFetchBundle_FirstErrorWins(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/reviews/7" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "no reviews here"}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	bundle, err := client.FetchBundle(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error")
	}
	if bundle != nil {
		t.Fatalf("expected nil bundle on failure, got: %+v", bundle)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got: %T", err)
	}
	if statusErr.Operation != "reviews" {
		t.Fatalf("unexpected operation: %q", statusErr.Operation)
	}
}

func TestMock_ListAndFetch(t *testing.T) {
	t.Parallel()

	mock := NewMock()
	products, err := mock.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) < 2 {
		t.Fatalf("expected at least two mock products, got: %+v", products)
	}
	if !sort.SliceIsSorted(products, func(i, j int) bool { return products[i].ID < products[j].ID }) {
		t.Fatalf("expected products sorted by id: %+v", products)
	}

	bundle, err := mock.FetchBundle(context.Background(), products[0].ID)
	if err != nil {
		t.Fatalf("fetch bundle: %v", err)
	}
	if len(bundle.Offer.Variants) == 0 {
		t.Fatalf("mock bundle has no variants: %+v", bundle.Offer)
	}
	for _, v := range bundle.Offer.Variants {
		if len(v.Pricing) == 0 {
			t.Fatalf("mock variant %d has no pricing", v.ID)
		}
	}

	_, err = mock.FetchBundle(context.Background(), 999999)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError for unknown product, got: %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status code: %d", statusErr.StatusCode)
	}
}
