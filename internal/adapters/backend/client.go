// Package backend is the Record Access Client: one HTTP client per backend
// resource, speaking the backend's list / get / upsert conventions.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sura/internal/domain/record"
)

// Resource names under {origin}/{namespace}/v1/.
const (
	ResourceUsers         = "usuarios"
	ResourceTeachers      = "profesores"
	ResourceCourses       = "cursos"
	ResourceNotifications = "notificaciones"
	ResourceGrades        = "notas"
	ResourceAttendance    = "asistencias"
	ResourceEnrollments   = "matriculas"
	ResourceReports       = "reportes"
)

// DefaultTimeout bounds a single backend round trip.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error body is surfaced to users.
const maxErrorBody = 4 << 10

const defaultWriteMessage = "Error al guardar el registro"

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reads and writes one backend resource.
// Every call is a single round trip bound to ctx. There are no retries and
// no idempotency key, so resubmitting a create after a timeout can
// duplicate the record.
type Client struct {
	resource string
	baseURL  string
	http     Doer
}

// NewClient creates a client for resource under apiBase
// (e.g. "http://localhost:8080/apisura8/v1").
// PRE: apiBase is an absolute URL; resource is non-empty
// POST: Returns a ready-to-use client
func NewClient(httpClient Doer, apiBase, resource string) *Client {
	return &Client{
		resource: resource,
		baseURL:  strings.TrimRight(apiBase, "/") + "/" + resource,
		http:     httpClient,
	}
}

// APIBase builds the versioned API root from origin and namespace.
func APIBase(origin, namespace string) string {
	return strings.TrimRight(origin, "/") + "/" + strings.Trim(namespace, "/") + "/v1"
}

// Resource returns the backend resource name.
func (c *Client) Resource() string { return c.resource }

// ListAll fetches every record of the resource.
// PRE: ctx is valid
// POST: Returns the records, or *NetworkError on transport failure or non-2xx
func (c *Client) ListAll(ctx context.Context) ([]record.Record, error) {
	return c.list(ctx, c.baseURL, "list")
}

func (c *Client) list(ctx context.Context, url, op string) ([]record.Record, error) {
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Resource: c.resource, Op: op, Err: err}
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		drain(resp.Body)
		return nil, &NetworkError{Resource: c.resource, Op: op, Status: resp.StatusCode}
	}
	var out []record.Record
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, &NetworkError{Resource: c.resource, Op: op, Status: resp.StatusCode, Err: err}
	}
	if out == nil {
		out = []record.Record{}
	}
	return out, nil
}

// GetByID fetches a single record.
// PRE: id > 0
// POST: Returns the record, *NotFoundError on non-2xx, *NetworkError on transport failure
func (c *Client) GetByID(ctx context.Context, id int64) (record.Record, error) {
	resp, err := c.do(ctx, http.MethodGet, c.itemURL(id), nil)
	if err != nil {
		return nil, &NetworkError{Resource: c.resource, Op: "get", Err: err}
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		drain(resp.Body)
		return nil, &NotFoundError{Resource: c.resource, ID: id, Status: resp.StatusCode}
	}
	var out record.Record
	if err := decodeJSON(resp.Body, &out); err != nil || out == nil {
		return nil, &NotFoundError{Resource: c.resource, ID: id, Status: resp.StatusCode}
	}
	return out, nil
}

// Create inserts a record through the upsert endpoint.
// PRE: r carries no identifier
// POST: Returns the stored record; ErrIdentifierOnCreate if r has an id,
// *ValidationError on non-2xx, *NetworkError on transport failure
func (c *Client) Create(ctx context.Context, r record.Record) (record.Record, error) {
	if r.HasID() {
		return nil, record.ErrIdentifierOnCreate
	}
	payload, err := record.Create(r).Payload()
	if err != nil {
		return nil, err
	}
	return c.write(ctx, http.MethodPost, c.baseURL, payload, "create")
}

// Update modifies a record through the upsert endpoint by echoing its id.
// PRE: r carries its identifier
// POST: record.ErrMissingID with no request issued when r has no id
func (c *Client) Update(ctx context.Context, r record.Record) (record.Record, error) {
	id, ok := r.ID()
	if !ok {
		return nil, record.ErrMissingID
	}
	return c.Apply(ctx, record.Update(r, id))
}

// Apply translates an Operation to the upsert endpoint: the presence of
// "id" in the POST body is the only create-versus-update signal.
// PRE: op built with record.Create or record.Update
// POST: same outcomes as Create / Update
func (c *Client) Apply(ctx context.Context, op record.Operation) (record.Record, error) {
	payload, err := op.Payload()
	if err != nil {
		return nil, err
	}
	return c.write(ctx, http.MethodPost, c.baseURL, payload, op.Kind().String())
}

func (c *Client) write(ctx context.Context, method, url string, payload record.Record, op string) (record.Record, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", c.resource, err)
	}
	resp, err := c.do(ctx, method, url, body)
	if err != nil {
		return nil, &NetworkError{Resource: c.resource, Op: op, Err: err}
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		msg := readText(resp.Body)
		if msg == "" {
			msg = defaultWriteMessage
		}
		slog.Info("backend_write_rejected", "resource", c.resource, "op", op, "status", resp.StatusCode)
		return nil, &ValidationError{Resource: c.resource, Status: resp.StatusCode, Message: msg}
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		drain(resp.Body)
		return payload, nil
	}
	var out record.Record
	if err := decodeJSON(resp.Body, &out); err != nil || out == nil {
		return payload, nil
	}
	return out, nil
}

func (c *Client) itemURL(id int64) string {
	return c.baseURL + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("backend_request_failed", "resource", c.resource, "method", method, "error", err.Error())
		return nil, err
	}
	return resp, nil
}

func isSuccess(code int) bool { return code >= 200 && code < 300 }

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}

// readText reads an error body as plain text; it is never parsed as JSON.
func readText(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(b))
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxErrorBody))
}
