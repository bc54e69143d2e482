package ops

import (
	"maps"
	"slices"
	"sync"

	"github.com/cottand/ocl/internal/log"
)

var registryLogger = log.DefaultLogger.With("section", "registry")

// Registry maps operation names to their variants, in registration order.
//
// A Registry is populated during bootstrap and then sealed; once sealed it only serves reads.
type Registry struct {
	mu       sync.RWMutex
	variants map[string][]*Variant
	sealed   bool
}

func NewRegistry() *Registry {
	return &Registry{
		variants: make(map[string][]*Variant),
	}
}

// Register appends v to the variants of v.Name
func (r *Registry) Register(v *Variant) error {
	if v == nil {
		return New(NewInvalidVariant{Reason: "nil variant"})
	}
	if err := v.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return New(NewRegistrySealed{Name: v.Name})
	}
	r.variants[v.Name] = append(r.variants[v.Name], v)
	registryLogger.Debug("registered variant", "op", v.Name, "signature", v.Signature, "overloads", len(r.variants[v.Name]))
	return nil
}

// Seal makes every later Register call fail
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the variants registered under name, in registration order
func (r *Registry) Lookup(name string) []*Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.variants[name])
}

// Names returns every operation name with at least one variant, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.variants))
}

var (
	bootstrapOnce     sync.Once
	bootstrapRegistry *Registry
)

// Bootstrap returns the process-wide registry holding every built-in operation.
// It is built the first time Bootstrap is called and is sealed.
func Bootstrap() *Registry {
	bootstrapOnce.Do(func() {
		r := NewRegistry()
		if err := RegisterBagOperations(r); err != nil {
			panic("could not register bag operations (this is a bug): " + err.Error())
		}
		r.Seal()
		bootstrapRegistry = r
	})
	return bootstrapRegistry
}
