package aspectlog

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

// Registry is the explicit list of designated method names. It is safe for
// concurrent use; designations may change while calls are in flight. A nil
// *Registry designates nothing and ignores changes.
type Registry struct {
	names *xsync.MapOf[string, struct{}]
}

// NewRegistry returns a Registry with names designated.
func NewRegistry(names ...string) *Registry {
	r := &Registry{names: xsync.NewMapOf[string, struct{}]()}
	r.Designate(names...)
	return r
}

// Designate marks names for interception. Empty names are ignored.
func (r *Registry) Designate(names ...string) {
	if r == nil {
		return
	}
	for _, n := range names {
		if n == emptyString {
			continue
		}
		r.names.Store(n, struct{}{})
	}
}

// Revoke removes a designation.
func (r *Registry) Revoke(name string) {
	if r == nil {
		return
	}
	r.names.Delete(name)
}

// IsDesignated reports whether name is marked for interception.
func (r *Registry) IsDesignated(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.names.Load(name)
	return ok
}

// Names returns the designated names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, r.names.Size())
	r.names.Range(func(k string, _ struct{}) bool {
		out = append(out, k)
		return true
	})
	sort.Strings(out)
	return out
}
