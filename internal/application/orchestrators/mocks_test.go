package orchestrators

import (
	"context"
	"errors"
	"sync"

	"sura/internal/adapters/email"
	"sura/internal/domain/audit"
	"sura/internal/domain/record"
)

// --- Mock backend resource ---

type mockRecords struct {
	records   map[int64]record.Record
	listErr   error
	applyErr  error
	deleteErr error
	nextID    int64
	applied   []record.Operation
	deleted   []int64
}

func newMockRecords(rs ...record.Record) *mockRecords {
	m := &mockRecords{records: make(map[int64]record.Record), nextID: 100}
	for _, r := range rs {
		id, _ := r.ID()
		m.records[id] = r
	}
	return m
}

// ListAll returns every stored record.
func (m *mockRecords) ListAll(_ context.Context) ([]record.Record, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]record.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

// GetByID returns a stored record or a not-found error.
func (m *mockRecords) GetByID(_ context.Context, id int64) (record.Record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

// Create stores r under a new id.
func (m *mockRecords) Create(ctx context.Context, r record.Record) (record.Record, error) {
	return m.Apply(ctx, record.Create(r))
}

// Apply stores the operation payload, assigning an id on create.
func (m *mockRecords) Apply(_ context.Context, op record.Operation) (record.Record, error) {
	m.applied = append(m.applied, op)
	if m.applyErr != nil {
		return nil, m.applyErr
	}
	payload, err := op.Payload()
	if err != nil {
		return nil, err
	}
	id := op.ID()
	if op.Kind() == record.KindCreate {
		m.nextID++
		id = m.nextID
	}
	saved := payload.WithID(id)
	m.records[id] = saved
	return saved, nil
}

// Delete removes a stored record.
func (m *mockRecords) Delete(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	delete(m.records, id)
	return nil
}

// --- Mock audit store ---

type mockAudit struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

// Save keeps the event unless err is set.
func (m *mockAudit) Save(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
	return nil
}

func (m *mockAudit) last() audit.Event {
	if len(m.events) == 0 {
		return audit.Event{}
	}
	return m.events[len(m.events)-1]
}

// --- Mock email sender ---

type mockSender struct {
	sent    []email.SendRequest
	batches int
	err     error
}

// Send records a single request.
func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "m1"}, nil
}

// SendBatch records every request of the batch.
func (m *mockSender) SendBatch(_ context.Context, reqs []email.SendRequest) ([]email.SendResult, error) {
	m.batches++
	if m.err != nil {
		return nil, m.err
	}
	var out []email.SendResult
	for range reqs {
		out = append(out, email.SendResult{MessageID: "b"})
	}
	m.sent = append(m.sent, reqs...)
	return out, nil
}
