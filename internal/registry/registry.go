package registry

import "github.com/traceprint/traceprint/internal/model"

// Registry is an ordered, name-indexed view of the platform catalog.
//
// Design decision: The registry copies the descriptor slice it is given
// and never mutates it, so a Registry can be shared across goroutines
// without locking.
type Registry struct {
	platforms []model.PlatformDescriptor
	byName    map[string]int
}

// New builds a registry from the given descriptors. Order is preserved.
// When two descriptors share a name the later one wins, matching config
// file override semantics.
func New(platforms []model.PlatformDescriptor) *Registry {
	r := &Registry{
		platforms: make([]model.PlatformDescriptor, 0, len(platforms)),
		byName:    make(map[string]int, len(platforms)),
	}
	for _, p := range platforms {
		if idx, ok := r.byName[p.Name]; ok {
			r.platforms[idx] = p
			continue
		}
		r.byName[p.Name] = len(r.platforms)
		r.platforms = append(r.platforms, p)
	}
	return r
}

// Platforms returns the descriptors in catalog order. If limit is
// positive, at most limit descriptors are returned.
func (r *Registry) Platforms(limit int) []model.PlatformDescriptor {
	out := make([]model.PlatformDescriptor, len(r.platforms))
	copy(out, r.platforms)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Len returns the number of platforms in the catalog.
func (r *Registry) Len() int {
	return len(r.platforms)
}

// Names returns the platform names in catalog order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.platforms))
	for i, p := range r.platforms {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the descriptor for the named platform.
func (r *Registry) Lookup(name string) (model.PlatformDescriptor, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return model.PlatformDescriptor{}, false
	}
	return r.platforms[idx], true
}

// Resolve returns the profile URL for handle on the named platform.
// Unknown platforms resolve to the empty string rather than an error;
// an empty URL is what the probe engine records as invalid_platform.
func (r *Registry) Resolve(name, handle string) string {
	desc, ok := r.Lookup(name)
	if !ok {
		return ""
	}
	return desc.ProfileURL(handle)
}

// Category returns the category of the named platform, or the empty
// category for unknown platforms.
func (r *Registry) Category(name string) model.PlatformCategory {
	desc, ok := r.Lookup(name)
	if !ok {
		return ""
	}
	return desc.Category
}

// RiskWeight returns the risk weight of the named platform. Unknown
// platforms weigh 0.5, a neutral middle ground for catalog additions
// that never set a weight.
func (r *Registry) RiskWeight(name string) float64 {
	desc, ok := r.Lookup(name)
	if !ok {
		return 0.5
	}
	return desc.RiskWeight
}

// Sensitivity returns the data sensitivity of the named platform.
// Unknown platforms report 0.5.
func (r *Registry) Sensitivity(name string) float64 {
	desc, ok := r.Lookup(name)
	if !ok {
		return 0.5
	}
	return desc.Sensitivity
}
