package backend

import (
	"context"
	"net/http"
	"net/url"

	"sura/internal/domain/record"
)

// GradeClient talks to the grades resource, whose backend differs from the
// upsert convention: updates are PUT /{id} and records can be deleted.
type GradeClient struct {
	*Client
}

// NewGradeClient creates the grades client under apiBase.
func NewGradeClient(httpClient Doer, apiBase string) *GradeClient {
	return &GradeClient{Client: NewClient(httpClient, apiBase, ResourceGrades)}
}

// ListByEmail fetches the grades of one student using the backend filter.
// PRE: email is non-empty
// POST: Returns the records, or *NetworkError
func (g *GradeClient) ListByEmail(ctx context.Context, email string) ([]record.Record, error) {
	return g.list(ctx, g.baseURL+"?email="+url.QueryEscape(email), "list")
}

// Update modifies a grade with PUT /{id}.
// PRE: r carries its identifier
// POST: record.ErrMissingID with no request issued when r has no id
func (g *GradeClient) Update(ctx context.Context, r record.Record) (record.Record, error) {
	id, ok := r.ID()
	if !ok {
		return nil, record.ErrMissingID
	}
	return g.Apply(ctx, record.Update(r, id))
}

// Apply sends creates to POST and updates to PUT /{id}.
func (g *GradeClient) Apply(ctx context.Context, op record.Operation) (record.Record, error) {
	payload, err := op.Payload()
	if err != nil {
		return nil, err
	}
	if op.Kind() == record.KindCreate {
		return g.write(ctx, http.MethodPost, g.baseURL, payload, "create")
	}
	return g.write(ctx, http.MethodPut, g.itemURL(op.ID()), payload, "update")
}

// Delete removes a grade with DELETE /{id}.
// PRE: id > 0
// POST: *ValidationError on non-2xx, *NetworkError on transport failure
func (g *GradeClient) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return record.ErrMissingID
	}
	resp, err := g.do(ctx, http.MethodDelete, g.itemURL(id), nil)
	if err != nil {
		return &NetworkError{Resource: g.resource, Op: "delete", Err: err}
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		msg := readText(resp.Body)
		if msg == "" {
			msg = "Error al eliminar el registro"
		}
		return &ValidationError{Resource: g.resource, Status: resp.StatusCode, Message: msg}
	}
	drain(resp.Body)
	return nil
}
