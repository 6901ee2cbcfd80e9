package grocy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grocysync/importer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGrocy is a minimal in-memory stand-in for the Grocy objects API
type fakeGrocy struct {
	t        *testing.T
	objects  map[string][]map[string]any
	nextID   int
	failPost map[string]int // entity -> status code
	posts    []string
}

func newFakeGrocy(t *testing.T) *fakeGrocy {
	return &fakeGrocy{
		t:        t,
		objects:  map[string][]map[string]any{},
		nextID:   100,
		failPost: map[string]int{},
	}
}

func (f *fakeGrocy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, "secret", r.Header.Get("GROCY-API-KEY"))
	entity := strings.TrimPrefix(r.URL.Path, "/api/objects/")

	switch r.Method {
	case http.MethodGet:
		list := f.objects[entity]
		if list == nil {
			list = []map[string]any{}
		}
		json.NewEncoder(w).Encode(list)
	case http.MethodPost:
		f.posts = append(f.posts, entity)
		if status, ok := f.failPost[entity]; ok {
			w.WriteHeader(status)
			w.Write([]byte(`{"error_message":"rejected"}`))
			return
		}
		var payload map[string]any
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&payload))
		f.nextID++
		payload["id"] = f.nextID
		f.objects[entity] = append(f.objects[entity], payload)
		json.NewEncoder(w).Encode(map[string]any{"created_object_id": f.nextID})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("secret", "https://grocy.example.com/")

	assert.Equal(t, "secret", client.apiKey)
	assert.Equal(t, "https://grocy.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.False(t, client.debug)
}

func TestFetchKnownBarcodes(t *testing.T) {
	fake := newFakeGrocy(t)
	fake.objects["product_barcodes"] = []map[string]any{
		{"id": 1, "barcode": "4006381333931"},
		{"id": 2, "barcode": " 40123456 "},
		{"id": 3, "barcode": ""},
		{"id": 4, "barcode": 12345678},
	}
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewClient("secret", server.URL)
	known, err := client.FetchKnownBarcodes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, known.Len())
	assert.True(t, known.Contains("4006381333931"))
	assert.True(t, known.Contains("40123456"))
	assert.True(t, known.Contains("12345678"))
}

func TestFetchKnownBarcodes_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("wrong", server.URL)
	known, err := client.FetchKnownBarcodes(context.Background())

	assert.Nil(t, known)
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "status 401")
}

func TestFetchKnownBarcodes_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient("secret", url)
	_, err := client.FetchKnownBarcodes(context.Background())

	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestEnsureReference_Found(t *testing.T) {
	fake := newFakeGrocy(t)
	fake.objects["quantity_units"] = []map[string]any{
		{"id": "3", "name": "Packung"},
		{"id": "7", "name": "Stück"},
	}
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewClient("secret", server.URL)
	result, err := client.EnsureReference(context.Background(), domain.ReferenceQuantityUnit, "Stück")

	require.NoError(t, err)
	assert.Equal(t, domain.ReferenceResult{ID: 7, Outcome: domain.OutcomeFound}, result)
	assert.Empty(t, fake.posts)
}

func TestEnsureReference_CreatedThenFound(t *testing.T) {
	fake := newFakeGrocy(t)
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewClient("secret", server.URL)
	ctx := context.Background()

	first, err := client.EnsureReference(ctx, domain.ReferenceQuantityUnit, "Stück")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, first.Outcome)
	assert.Equal(t, "Stück", fake.objects["quantity_units"][0]["name_plural"])

	second, err := client.EnsureReference(ctx, domain.ReferenceQuantityUnit, "Stück")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFound, second.Outcome)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fake.objects["quantity_units"], 1)

	location, err := client.EnsureReference(ctx, domain.ReferenceLocation, "Vorrat")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, location.Outcome)
	assert.NotContains(t, fake.objects["locations"][0], "name_plural")
}

func TestEnsureReference_Failed(t *testing.T) {
	fake := newFakeGrocy(t)
	fake.failPost["locations"] = http.StatusBadRequest
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewClient("secret", server.URL)
	result, err := client.EnsureReference(context.Background(), domain.ReferenceLocation, "Vorrat")

	assert.ErrorIs(t, err, domain.ErrGrocyAPIFailure)
	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
}

func TestEnsureReference_UnknownKind(t *testing.T) {
	client := NewClient("secret", "http://127.0.0.1:0")

	result, err := client.EnsureReference(context.Background(), domain.ReferenceKind("shopping_lists"), "x")

	assert.ErrorIs(t, err, domain.ErrUnknownReferenceKind)
	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
}

func TestCreateCatalogEntry_Created(t *testing.T) {
	fake := newFakeGrocy(t)
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewClient("secret", server.URL)
	row := domain.Row{Name: "Apfelsaft", Barcode: "4006381333931", Brand: "Hohes C", Quantity: "1 l", Category: "Getränke"}

	result := client.CreateCatalogEntry(context.Background(), row, 7, 9)

	require.NoError(t, result.Err)
	assert.True(t, result.Imported())
	assert.Equal(t, domain.OutcomeCreated, result.Outcome)
	assert.Equal(t, []string{"products", "product_barcodes"}, fake.posts)

	product := fake.objects["products"][0]
	assert.Equal(t, "Apfelsaft", product["name"])
	assert.Equal(t, "Hohes C 1 l", product["description"])
	assert.EqualValues(t, 7, product["qu_id_stock"])
	assert.EqualValues(t, 7, product["qu_id_purchase"])
	assert.EqualValues(t, 9, product["location_id"])
	assert.EqualValues(t, 0, product["min_stock_amount"])

	barcode := fake.objects["product_barcodes"][0]
	assert.EqualValues(t, result.ProductID, barcode["product_id"])
	assert.Equal(t, "4006381333931", barcode["barcode"])
}

func TestCreateCatalogEntry_ProductRejected(t *testing.T) {
	fake := newFakeGrocy(t)
	fake.failPost["products"] = http.StatusBadRequest
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewClient("secret", server.URL)
	result := client.CreateCatalogEntry(context.Background(), domain.Row{Name: "X", Barcode: "40123456"}, 1, 1)

	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
	assert.False(t, result.Imported())
	assert.ErrorIs(t, result.Err, domain.ErrGrocyAPIFailure)
	assert.Equal(t, []string{"products"}, fake.posts)
}

func TestCreateCatalogEntry_Orphaned(t *testing.T) {
	fake := newFakeGrocy(t)
	fake.failPost["product_barcodes"] = http.StatusBadRequest
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewClient("secret", server.URL)
	result := client.CreateCatalogEntry(context.Background(), domain.Row{Name: "X", Barcode: "40123456"}, 1, 1)

	assert.Equal(t, domain.OutcomeOrphaned, result.Outcome)
	assert.False(t, result.Imported())
	assert.NotZero(t, result.ProductID)
	assert.Error(t, result.Err)
	assert.Len(t, fake.objects["products"], 1)
}

func TestCreateObject_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("secret", server.URL)
	_, err := client.createObject(context.Background(), "locations", map[string]any{"name": "Vorrat"})

	assert.ErrorIs(t, err, domain.ErrGrocyAPIFailure)
}
