package domain

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Layer is an ordered set of package names whose managed dependencies are all
// satisfied by earlier layers.
type Layer []string

// Contains reports whether the layer holds the named package.
func (l Layer) Contains(name string) bool {
	return slices.ContainsFunc(l, func(n string) bool { return SameName(n, name) })
}

// Plan is the result of layering: the ordered layers plus the resolved packages they refer to.
type Plan struct {
	// Layers holds the rollout order. Layers[0] is always the foundation package.
	Layers []Layer

	// Packages maps NameKey(name) to the resolved descriptor of every layered package.
	Packages map[string]PackageDescriptor

	// Excluded lists packages that could not be found in the registry and were left out of the run.
	Excluded []string
}

// NewPlan creates an empty Plan.
func NewPlan() *Plan {
	return &Plan{
		Packages: make(map[string]PackageDescriptor),
	}
}

// Package returns the resolved descriptor for name.
func (p *Plan) Package(name string) (PackageDescriptor, bool) {
	d, ok := p.Packages[NameKey(name)]
	return d, ok
}

// PackageCount returns the number of layered packages.
func (p *Plan) PackageCount() int {
	n := 0
	for _, l := range p.Layers {
		n += len(l)
	}
	return n
}

// LayerOf returns the index of the layer holding name, or -1.
func (p *Plan) LayerOf(name string) int {
	for i, l := range p.Layers {
		if l.Contains(name) {
			return i
		}
	}
	return -1
}

// Outdated returns the descriptors that need an update, in rollout order.
func (p *Plan) Outdated() []PackageDescriptor {
	var out []PackageDescriptor
	for _, l := range p.Layers {
		for _, name := range l {
			if d, ok := p.Package(name); ok && !d.UpToDate() {
				out = append(out, d)
			}
		}
	}
	return out
}

// Fingerprint returns a stable hash of the layering.
// Order within a layer does not affect the result; order across layers does.
func (p *Plan) Fingerprint() string {
	h := xxhash.New()
	for _, l := range p.Layers {
		names := make([]string, len(l))
		for i, n := range l {
			names[i] = NameKey(n)
		}
		slices.Sort(names)
		for _, n := range names {
			_, _ = h.WriteString(n)
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte{1}) // Layer separator
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
