package grocy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/grocysync/importer/internal/domain"
	"github.com/grocysync/importer/internal/util"
)

const maxErrorBody = 512

// Client handles communication with the Grocy REST API
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	debug      bool
}

// createdResponse is returned by POST /api/objects/{entity}
type createdResponse struct {
	CreatedObjectID any `json:"created_object_id"`
}

// NewClient creates a new Grocy API client
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 25 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetDebug enables or disables per-request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...any) {
	if c.debug {
		log.Printf("[GROCY] "+format, args...)
	}
}

// doRequest executes an authenticated request and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	// Encode payload
	var body io.Reader
	if payload != nil {
		blob, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(blob)
	}

	// Build request
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("GROCY-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	// Execute request
	c.debugLog("%s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGrocyAPIFailure, err)
	}
	defer resp.Body.Close()

	// Check status code, any 2xx is success
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %s %s status %d, body: %s", domain.ErrGrocyAPIFailure, method, path, resp.StatusCode, string(excerpt))
	}

	// Read body
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGrocyAPIFailure, err)
	}
	return data, nil
}

// listObjects returns all objects of one entity type
func (c *Client) listObjects(ctx context.Context, entity string) ([]map[string]any, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/api/objects/"+entity, nil)
	if err != nil {
		return nil, err
	}

	var objects []map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&objects); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", entity, err)
	}
	return objects, nil
}

// createObject creates one object and returns its id
func (c *Client) createObject(ctx context.Context, entity string, payload map[string]any) (int, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/api/objects/"+entity, payload)
	if err != nil {
		return 0, err
	}

	var created createdResponse
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&created); err != nil {
		return 0, fmt.Errorf("failed to decode created %s: %w", entity, err)
	}

	id, ok := util.AsInt(created.CreatedObjectID)
	if !ok {
		return 0, fmt.Errorf("%w: %s response without created_object_id", domain.ErrGrocyAPIFailure, entity)
	}
	return id, nil
}

// FetchKnownBarcodes loads every barcode currently assigned to a product
func (c *Client) FetchKnownBarcodes(ctx context.Context) (*domain.BarcodeSet, error) {
	objects, err := c.listObjects(ctx, "product_barcodes")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}

	codes := make([]string, 0, len(objects))
	for _, obj := range objects {
		codes = append(codes, util.AsString(obj["barcode"]))
	}
	return domain.NewBarcodeSet(codes...), nil
}

// EnsureReference returns the id of the named quantity unit or location,
// creating it when no object with that name exists
func (c *Client) EnsureReference(ctx context.Context, kind domain.ReferenceKind, name string) (domain.ReferenceResult, error) {
	var payload map[string]any
	switch kind {
	case domain.ReferenceQuantityUnit:
		payload = map[string]any{"name": name, "name_plural": name}
	case domain.ReferenceLocation:
		payload = map[string]any{"name": name}
	default:
		return domain.ReferenceResult{Outcome: domain.OutcomeFailed}, fmt.Errorf("%w: %s", domain.ErrUnknownReferenceKind, kind)
	}

	// Look up by name before creating
	objects, err := c.listObjects(ctx, string(kind))
	if err != nil {
		return domain.ReferenceResult{Outcome: domain.OutcomeFailed}, err
	}
	for _, obj := range objects {
		if util.AsString(obj["name"]) != name {
			continue
		}
		if id, ok := util.AsInt(obj["id"]); ok {
			return domain.ReferenceResult{ID: id, Outcome: domain.OutcomeFound}, nil
		}
	}

	id, err := c.createObject(ctx, string(kind), payload)
	if err != nil {
		return domain.ReferenceResult{Outcome: domain.OutcomeFailed}, err
	}
	c.debugLog("created %s %q with id %d", kind, name, id)
	return domain.ReferenceResult{ID: id, Outcome: domain.OutcomeCreated}, nil
}

// CreateCatalogEntry creates a product and then assigns the row's barcode to it.
// The two requests are not transactional: if the second one fails the
// product is left without barcode and the result is tagged orphaned.
func (c *Client) CreateCatalogEntry(ctx context.Context, row domain.Row, unitID, locationID int) domain.CreateResult {
	// Step 1: create product
	productID, err := c.createObject(ctx, "products", map[string]any{
		"name":             row.Name,
		"description":      row.Description(),
		"qu_id_stock":      unitID,
		"qu_id_purchase":   unitID,
		"location_id":      locationID,
		"min_stock_amount": 0,
	})
	if err != nil {
		c.debugLog("product %q [%s] rejected: %v", row.Name, row.Barcode, err)
		return domain.CreateResult{Outcome: domain.OutcomeFailed, Err: err}
	}

	// Step 2: attach barcode
	_, err = c.createObject(ctx, "product_barcodes", map[string]any{
		"product_id": productID,
		"barcode":    row.Barcode,
	})
	if err != nil {
		return domain.CreateResult{Outcome: domain.OutcomeOrphaned, ProductID: productID, Err: err}
	}

	return domain.CreateResult{Outcome: domain.OutcomeCreated, ProductID: productID}
}
