package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

const (
	dependencySeparator = "|"
	dependencyFieldSep  = ":"
	dependencyFields    = 3
)

// DependencyRef is a single decoded dependency of a package.
type DependencyRef struct {
	// Name is the name of the package depended upon.
	Name string

	// VersionSpec is the version range as published, with brackets stripped.
	// It is kept for diagnostics only: the rollout always installs the latest version.
	VersionSpec string

	// TargetFramework is the framework moniker the dependency applies to, often empty.
	TargetFramework string
}

// String returns the dependency in a human-readable form, the name followed by the
// version spec as stored (an open range such as "1.0.0, )" keeps its closing parenthesis).
func (d DependencyRef) String() string {
	if d.VersionSpec == "" {
		return d.Name
	}
	return d.Name + " " + d.VersionSpec
}

// ParseDependencies decodes the registry's compact dependency encoding.
//
// Entries are separated by "|" and each entry must consist of exactly three ":"-separated
// tokens: name, version spec and target framework. An empty string yields no dependencies.
func ParseDependencies(raw string) ([]DependencyRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	entries := strings.Split(raw, dependencySeparator)
	refs := make([]DependencyRef, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		fields := strings.Split(entry, dependencyFieldSep)
		if len(fields) != dependencyFields {
			err := zerr.With(ErrMalformedDependency, "entry", entry)
			return nil, zerr.With(err, "fields", len(fields))
		}

		name := strings.TrimSpace(fields[0])
		if name == "" {
			return nil, zerr.With(ErrMalformedDependency, "entry", entry)
		}

		refs = append(refs, DependencyRef{
			Name:            name,
			VersionSpec:     strings.Trim(strings.TrimSpace(fields[1]), "[]"),
			TargetFramework: strings.TrimSpace(fields[2]),
		})
	}
	return refs, nil
}

// DependencyNames returns the names of refs in order.
func DependencyNames(refs []DependencyRef) []string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return names
}
