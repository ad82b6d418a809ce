package activity

// Kind identifies one of the closed set of downtime activity kinds.
type Kind string

const (
	KindAcquireAsset    Kind = "acquire-asset"
	KindLongTermProject Kind = "long-term-project"
	KindRecover         Kind = "recover"
	KindReduceHeat      Kind = "reduce-heat"
	KindTrain           Kind = "train"
	KindIndulgeVice     Kind = "indulge-vice"
)

// Payload is the kind-specific data of one activity.
type Payload interface {
	Kind() Kind
	// Fields returns the form fields pre-filled with the current values.
	Fields() []Field
	// Bind overwrites the payload from submitted form values. A failed bind
	// returns a *ValidationError and leaves the payload unusable.
	Bind(values map[string]string) error
	// Summary is a one-line description used in activity lists.
	Summary() string
}

// Record is one planned downtime activity.
type Record struct {
	ID      string  `json:"id"`
	Kind    Kind    `json:"type"`
	Payload Payload `json:"data"`
}

// List is the ordered activity list of one user. Order is insertion order.
type List []Record

// Find returns the index of the record with id, or -1.
func (l List) Find(id string) int {
	for i, rec := range l {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// Without returns a copy of the list with the record id removed.
func (l List) Without(id string) List {
	out := make(List, 0, len(l))
	for _, rec := range l {
		if rec.ID != id {
			out = append(out, rec)
		}
	}
	return out
}

// Clone returns a shallow copy that can be appended to without aliasing.
func (l List) Clone() List {
	return append(List(nil), l...)
}

// Has reports whether any record is of the given kind.
func (l List) Has(kind Kind) bool {
	for _, rec := range l {
		if rec.Kind == kind {
			return true
		}
	}
	return false
}
