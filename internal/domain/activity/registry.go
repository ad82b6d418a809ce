package activity

import "fmt"

// Descriptor describes one activity kind. The registry is the single place
// new kinds are added; the selector, the dialogs, decoding and the chat
// formatter all consult it.
type Descriptor struct {
	Kind     Kind
	TitleKey string
	New      func() Payload
}

var registry = []Descriptor{
	{Kind: KindAcquireAsset, TitleKey: "AcquireAsset.Title", New: func() Payload { return &AcquireAsset{} }},
	{Kind: KindLongTermProject, TitleKey: "LongTermProject.Title", New: func() Payload { return &LongTermProject{} }},
	{Kind: KindRecover, TitleKey: "Recover.Title", New: func() Payload { return &Recover{} }},
	{Kind: KindReduceHeat, TitleKey: "ReduceHeat.Title", New: func() Payload { return &ReduceHeat{} }},
	{Kind: KindTrain, TitleKey: "Train.Title", New: func() Payload { return &Train{} }},
	{Kind: KindIndulgeVice, TitleKey: "IndulgeVice.Title", New: func() Payload { return &IndulgeVice{} }},
}

// Descriptors returns the registered kinds in selection order.
func Descriptors() []Descriptor {
	return append([]Descriptor(nil), registry...)
}

// Lookup returns the descriptor for kind.
func Lookup(kind Kind) (Descriptor, bool) {
	for _, d := range registry {
		if d.Kind == kind {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Kinds returns the registered kinds in selection order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for _, d := range registry {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

// NewPayload returns an empty payload for kind.
func NewPayload(kind Kind) (Payload, error) {
	d, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return d.New(), nil
}

// TitleKey returns the locale key of the kind's display title. Unknown kinds
// fall back to the kind itself.
func TitleKey(kind Kind) string {
	if d, ok := Lookup(kind); ok {
		return d.TitleKey
	}
	return string(kind)
}
