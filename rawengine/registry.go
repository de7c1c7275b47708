package rawengine

import (
	"sort"
	"sync"

	"github.com/weaming/rawdng-go/rawerr"
)

// Factory creates a fresh Engine.
type Factory func() Engine

// Engines maps engine names to factories.
type Engines struct {
	mu         sync.RWMutex
	factoryMap map[string]Factory
}

// NewEngines creates an empty registry.
func NewEngines() *Engines {
	return &Engines{factoryMap: make(map[string]Factory)}
}

// Register maps name to f, replacing any earlier registration.
func (r *Engines) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factoryMap[name] = f
}

// Delete removes name.
func (r *Engines) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factoryMap, name)
}

// New creates an engine by name.
func (r *Engines) New(name string) (Engine, error) {
	r.mu.RLock()
	f, ok := r.factoryMap[name]
	r.mu.RUnlock()
	if !ok {
		return nil, rawerr.WithMetadata(rawerr.CodeEngineNotFound, "unknown raw engine "+name, map[string]string{
			"engine": name,
		})
	}
	return f(), nil
}

// Names lists registered engines in sorted order.
func (r *Engines) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factoryMap))
	for name := range r.factoryMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultEngines = NewEngines()

// Register adds an engine to the default registry. Engine packages call it
// from init.
func Register(name string, f Factory) {
	defaultEngines.Register(name, f)
}

// Lookup creates an engine from the default registry.
func Lookup(name string) (Engine, error) {
	return defaultEngines.New(name)
}

// Names lists the default registry.
func Names() []string {
	return defaultEngines.Names()
}
