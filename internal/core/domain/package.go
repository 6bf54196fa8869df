// Package domain contains the core domain models for dependency-ordered module rollouts.
package domain

import "strings"

// PackageDescriptor describes a module installed in the managed account together with
// what the registry knows about it.
type PackageDescriptor struct {
	// Name is the module name as reported by the account (e.g. "Az.Accounts").
	Name string

	// InstalledVersion is the version currently installed in the account.
	// It is empty when the module is not installed yet.
	InstalledVersion string

	// LatestVersion is the version the registry resolved for this run.
	LatestVersion string

	// RawDependencies is the registry's compact dependency string for LatestVersion.
	RawDependencies string
}

// UpToDate reports whether the installed version already equals the resolved version.
func (p PackageDescriptor) UpToDate() bool {
	return p.LatestVersion != "" && p.InstalledVersion == p.LatestVersion
}

// WithRelease returns a copy of p carrying the version and dependencies of r.
func (p PackageDescriptor) WithRelease(r Release) PackageDescriptor {
	p.LatestVersion = r.Version
	p.RawDependencies = r.RawDependencies
	return p
}

// Release is a single published version of a package in the registry.
type Release struct {
	Name            string
	Version         string
	RawDependencies string
}

// SearchHit is one entry of a registry search result.
type SearchHit struct {
	// Title is the package name the registry reports for the entry.
	Title string
	// DetailURL points at the entry's authoritative detail document.
	DetailURL string
}

// NameKey returns the canonical form of a package name used for set membership.
// Module names are case-insensitive identifiers on both the registry and the account.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameName reports whether a and b name the same package.
func SameName(a, b string) bool {
	return NameKey(a) == NameKey(b)
}
