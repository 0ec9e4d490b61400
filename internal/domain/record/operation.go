package record

// Kind distinguishes the two write operations against an upsert endpoint.
type Kind uint8

const (
	KindCreate Kind = iota + 1
	KindUpdate
)

// String returns the audit name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindUpdate:
		return "update"
	}
	return "unknown"
}

// Operation is a write decided at the call site: Create(record) or
// Update(record, id). It is translated to the backend's single upsert
// endpoint only at the transport boundary.
type Operation struct {
	kind   Kind
	record Record
	id     int64
}

// Create builds an insert operation. Any identifier on r is dropped.
func Create(r Record) Operation {
	return Operation{kind: KindCreate, record: r.WithoutID()}
}

// Update builds a modify operation for the record with the given id.
func Update(r Record, id int64) Operation {
	return Operation{kind: KindUpdate, record: r.WithoutID(), id: id}
}

// Kind returns the operation kind.
func (o Operation) Kind() Kind { return o.kind }

// ID returns the target identifier of an update, zero for a create.
func (o Operation) ID() int64 { return o.id }

// Payload returns the body to submit to the upsert endpoint.
// PRE: operation built with Create or Update
// POST: a create payload never carries "id"; an update payload always does
func (o Operation) Payload() (Record, error) {
	switch o.kind {
	case KindCreate:
		return o.record.WithoutID(), nil
	case KindUpdate:
		if o.id <= 0 {
			return nil, ErrMissingID
		}
		return o.record.WithID(o.id), nil
	}
	return nil, ErrMissingID
}
