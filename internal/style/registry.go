package style

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
)

// Registry remembers which palette slot, size bucket and caption each label
// uses. A label is bound to a random color slot the first time it is looked up
// and keeps it until it is reassigned. Many labels may share a slot.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	rng      *rand.Rand
	colors   map[Kind]map[string]int
	sizes    map[Kind]map[string]int
	captions map[Kind]map[string]string
}

// Option configures a Registry.
type Option func(*Registry)

// WithRand sets the random source used to pick color slots.
func WithRand(r *rand.Rand) Option {
	return func(reg *Registry) {
		reg.rng = r
	}
}

// WithSeed makes slot selection deterministic for the given seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		colors:   map[Kind]map[string]int{KindNode: {}, KindEdge: {}},
		sizes:    map[Kind]map[string]int{KindNode: {}, KindEdge: {}},
		captions: map[Kind]map[string]string{KindNode: {}, KindEdge: {}},
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// ColorFor returns the style bound to label, binding a random slot on first use.
func (r *Registry) ColorFor(kind Kind, label string) LabelStyle {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind = kind.normalize()

	slots := palette(kind)
	idx, ok := r.colors[kind][label]
	if !ok {
		idx = r.rng.IntN(len(slots))
		r.colors[kind][label] = idx
	}
	return slots[idx]
}

// SizeFor returns the size bound to label, binding the default bucket on first use.
func (r *Registry) SizeFor(kind Kind, label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind = kind.normalize()

	buckets := sizes(kind)
	idx, ok := r.sizes[kind][label]
	if !ok {
		idx = defaultSizeIndex(kind)
		r.sizes[kind][label] = idx
	}
	return buckets[idx]
}

// SetColor moves label to the slot whose color matches s.Color.
// If no slot matches, the label is unbound and gets a random slot on its next
// lookup. Reports whether a matching slot was found.
func (r *Registry) SetColor(kind Kind, label string, s LabelStyle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind = kind.normalize()

	delete(r.colors[kind], label)
	for i, slot := range palette(kind) {
		if strings.EqualFold(slot.Color, s.Color) {
			r.colors[kind][label] = i
			return true
		}
	}
	return false
}

// SetSize moves label to the bucket matching size.
// If no bucket matches, the label is unbound and falls back to the default
// bucket on its next lookup. Reports whether a matching bucket was found.
func (r *Registry) SetSize(kind Kind, label string, size int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind = kind.normalize()

	delete(r.sizes[kind], label)
	for i, s := range sizes(kind) {
		if s == size {
			r.sizes[kind][label] = i
			return true
		}
	}
	return false
}

// Caption returns the configured caption for label.
func (r *Registry) Caption(kind Kind, label string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind = kind.normalize()

	c, ok := r.captions[kind][label]
	return c, ok
}

// SetCaption configures the caption for label.
func (r *Registry) SetCaption(kind Kind, label, caption string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind = kind.normalize()

	r.captions[kind][label] = caption
}

// RegisterCaption sets caption only if label has none yet and returns the
// caption in effect.
func (r *Registry) RegisterCaption(kind Kind, label, caption string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind = kind.normalize()

	if c, ok := r.captions[kind][label]; ok {
		return c
	}
	r.captions[kind][label] = caption
	return caption
}

// Slot is one palette entry and the labels currently bound to it.
type Slot struct {
	Index  int        `json:"index"`
	Style  LabelStyle `json:"style"`
	Labels []string   `json:"labels"`
}

// Slots lists the palette of kind with the labels bound to each slot.
func (r *Registry) Slots(kind Kind) []Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind = kind.normalize()

	p := palette(kind)
	out := make([]Slot, len(p))
	for i, s := range p {
		out[i] = Slot{Index: i, Style: s, Labels: []string{}}
	}
	for label, idx := range r.colors[kind] {
		out[idx].Labels = append(out[idx].Labels, label)
	}
	for i := range out {
		sort.Strings(out[i].Labels)
	}
	return out
}

// Assignment records the bindings of one label.
// Slot and SizeIndex are -1 and Caption is empty when unbound.
type Assignment struct {
	Kind      Kind   `json:"kind"`
	Label     string `json:"label"`
	Slot      int    `json:"slot"`
	SizeIndex int    `json:"size_index"`
	Caption   string `json:"caption,omitempty"`
}

// Assignments returns every label binding, sorted by kind then label.
func (r *Registry) Assignments() []Assignment {
	r.mu.Lock()
	defer r.mu.Unlock()

	byKey := make(map[[2]string]*Assignment)
	get := func(kind Kind, label string) *Assignment {
		key := [2]string{string(kind), label}
		a, ok := byKey[key]
		if !ok {
			a = &Assignment{Kind: kind, Label: label, Slot: -1, SizeIndex: -1}
			byKey[key] = a
		}
		return a
	}

	for _, kind := range []Kind{KindNode, KindEdge} {
		for label, idx := range r.colors[kind] {
			get(kind, label).Slot = idx
		}
		for label, idx := range r.sizes[kind] {
			get(kind, label).SizeIndex = idx
		}
		for label, c := range r.captions[kind] {
			get(kind, label).Caption = c
		}
	}

	out := make([]Assignment, 0, len(byKey))
	for _, a := range byKey {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Restore loads bindings previously returned by Assignments.
func (r *Registry) Restore(assignments []Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range assignments {
		if _, err := ParseKind(string(a.Kind)); err != nil {
			return err
		}
		if a.Slot >= len(palette(a.Kind)) || a.SizeIndex >= len(sizes(a.Kind)) {
			return fmt.Errorf("assignment for %s %q out of range (slot %d, size %d)", a.Kind, a.Label, a.Slot, a.SizeIndex)
		}
		if a.Slot >= 0 {
			r.colors[a.Kind][a.Label] = a.Slot
		}
		if a.SizeIndex >= 0 {
			r.sizes[a.Kind][a.Label] = a.SizeIndex
		}
		if a.Caption != "" {
			r.captions[a.Kind][a.Label] = a.Caption
		}
	}
	return nil
}
