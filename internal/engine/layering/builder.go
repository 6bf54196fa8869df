// Package layering orders the managed packages into dependency layers.
package layering

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder computes the layered rollout order of a managed package set.
type Builder struct {
	catalog ports.Catalog
	logger  ports.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(catalog ports.Catalog, logger ports.Logger) *Builder {
	return &Builder{
		catalog: catalog,
		logger:  logger,
	}
}

// candidate is a package still waiting for a layer.
type candidate struct {
	pkg      domain.PackageDescriptor
	deps     []domain.DependencyRef
	resolved bool
}

// Build orders installed into layers. The foundation package always forms the first layer;
// every later layer only holds packages whose managed dependencies sit in earlier layers.
//
// Packages unknown to the registry are excluded from the plan. Dependencies on packages outside
// the managed set count as satisfied. Build fails with ErrUnsatisfiableDependencies when an
// iteration cannot place any remaining package.
func (b *Builder) Build(
	ctx context.Context,
	installed []domain.PackageDescriptor,
	foundation string,
) (*domain.Plan, error) {
	plan := domain.NewPlan()

	foundationPkg, err := b.resolveFoundation(ctx, installed, foundation)
	if err != nil {
		return nil, err
	}
	plan.Layers = append(plan.Layers, domain.Layer{foundationPkg.Name})
	plan.Packages[domain.NameKey(foundationPkg.Name)] = foundationPkg

	// managed holds every package of the run; placed holds those in finalised layers.
	managed := map[string]struct{}{domain.NameKey(foundationPkg.Name): {}}
	placed := map[string]struct{}{domain.NameKey(foundationPkg.Name): {}}

	remaining := make([]candidate, 0, len(installed))
	for _, pkg := range installed {
		key := domain.NameKey(pkg.Name)
		if _, dup := managed[key]; dup {
			continue
		}
		managed[key] = struct{}{}
		remaining = append(remaining, candidate{pkg: pkg})
	}

	for len(remaining) > 0 {
		remaining, err = b.resolveRemaining(ctx, plan, managed, remaining)
		if err != nil {
			return nil, err
		}
		if len(remaining) == 0 {
			break
		}

		var layer domain.Layer
		var deferred []candidate
		for _, c := range remaining {
			if len(unplacedDeps(c.deps, managed, placed)) == 0 {
				layer = append(layer, c.pkg.Name)
				continue
			}
			deferred = append(deferred, c)
		}

		if len(layer) == 0 {
			return nil, b.stalled(deferred, managed, placed)
		}

		for _, name := range layer {
			placed[domain.NameKey(name)] = struct{}{}
		}
		plan.Layers = append(plan.Layers, layer)
		b.logger.Debug("layer finalised", "layer", len(plan.Layers)-1, "packages", strings.Join(layer, ","))
		remaining = deferred
	}

	return plan, nil
}

func (b *Builder) resolveFoundation(
	ctx context.Context,
	installed []domain.PackageDescriptor,
	foundation string,
) (domain.PackageDescriptor, error) {
	pkg := domain.PackageDescriptor{Name: foundation}
	for _, p := range installed {
		if domain.SameName(p.Name, foundation) {
			pkg = p
			break
		}
	}

	release, err := b.catalog.Resolve(ctx, pkg.Name)
	if err != nil {
		return pkg, err
	}
	if release == nil {
		return pkg, zerr.With(domain.ErrFoundationNotFound, "package", foundation)
	}
	return pkg.WithRelease(*release), nil
}

// resolveRemaining looks every candidate up in the catalog and decodes its dependencies.
// Packages unknown to the registry leave the managed set and are recorded as excluded.
func (b *Builder) resolveRemaining(
	ctx context.Context,
	plan *domain.Plan,
	managed map[string]struct{},
	remaining []candidate,
) ([]candidate, error) {
	out := remaining[:0]
	for _, c := range remaining {
		if !c.resolved {
			release, err := b.catalog.Resolve(ctx, c.pkg.Name)
			if err != nil {
				return nil, err
			}
			if release == nil {
				b.logger.Warn("package not found in registry, excluding it from this run", "package", c.pkg.Name)
				delete(managed, domain.NameKey(c.pkg.Name))
				plan.Excluded = append(plan.Excluded, c.pkg.Name)
				continue
			}

			deps, err := domain.ParseDependencies(release.RawDependencies)
			if err != nil {
				return nil, zerr.With(err, "package", c.pkg.Name)
			}
			c.pkg = c.pkg.WithRelease(*release)
			c.deps = deps
			c.resolved = true
			plan.Packages[domain.NameKey(c.pkg.Name)] = c.pkg
		}
		out = append(out, c)
	}
	return out, nil
}

// unplacedDeps returns the managed dependencies that are not yet in a finalised layer.
func unplacedDeps(deps []domain.DependencyRef, managed, placed map[string]struct{}) []domain.DependencyRef {
	var out []domain.DependencyRef
	for _, d := range deps {
		key := domain.NameKey(d.Name)
		if _, inSet := managed[key]; !inSet {
			continue
		}
		if _, ok := placed[key]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// stalled builds the unsatisfiable-dependencies error for the packages that could not be placed.
func (b *Builder) stalled(deferred []candidate, managed, placed map[string]struct{}) error {
	graph := domain.NewDependencyGraph()
	stuck := make([]string, 0, len(deferred))
	for _, c := range deferred {
		missing := unplacedDeps(c.deps, managed, placed)
		names := domain.DependencyNames(missing)
		graph.Add(c.pkg.Name, names...)

		deps := make([]string, len(missing))
		for i, d := range missing {
			deps[i] = d.String()
		}
		// Version ranges contain commas, so entries are joined with semicolons.
		stuck = append(stuck, fmt.Sprintf("%s: %s", c.pkg.Name, strings.Join(deps, "; ")))
		b.logger.Warn("package has unresolved dependencies", "package", c.pkg.Name, "dependencies", strings.Join(deps, "; "))
	}

	err := zerr.With(domain.ErrUnsatisfiableDependencies, "stalled", stuck)
	if cycle := graph.FindCycle(); cycle != nil {
		err = zerr.With(err, "cycle", domain.FormatCycle(cycle))
	}
	return err
}
