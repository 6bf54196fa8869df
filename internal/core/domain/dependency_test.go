package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestParseDependencies(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []domain.DependencyRef
	}{
		{"Empty", "", nil},
		{"Whitespace", "   ", nil},
		{
			name: "Single",
			raw:  "Az.Accounts:[2.12.1, ):",
			expected: []domain.DependencyRef{
				{Name: "Az.Accounts", VersionSpec: "2.12.1, )"},
			},
		},
		{
			name: "Multiple",
			raw:  "Az.Accounts:[2.12.1]:|Az.Storage:5.0.0:net472",
			expected: []domain.DependencyRef{
				{Name: "Az.Accounts", VersionSpec: "2.12.1"},
				{Name: "Az.Storage", VersionSpec: "5.0.0", TargetFramework: "net472"},
			},
		},
		{
			name: "SkipsEmptyEntries",
			raw:  "Az.Accounts::||",
			expected: []domain.DependencyRef{
				{Name: "Az.Accounts"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := domain.ParseDependencies(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, refs)
		})
	}
}

func TestParseDependencies_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		fields int
	}{
		{"TooFewTokens", "Az.Accounts:2.0.0", 2},
		{"TooManyTokens", "Az.Accounts:2.0.0::extra", 4},
		{"OneToken", "Az.Accounts", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.ParseDependencies(tt.raw)
			require.Error(t, err)
			require.ErrorContains(t, err, domain.ErrMalformedDependency.Error())

			zErr, ok := err.(*zerr.Error)
			require.True(t, ok, "expected *zerr.Error, got %T", err)
			assert.Equal(t, tt.fields, zErr.Metadata()["fields"])
		})
	}
}

func TestParseDependencies_EmptyName(t *testing.T) {
	_, err := domain.ParseDependencies(":1.0.0:")
	require.ErrorContains(t, err, domain.ErrMalformedDependency.Error())
}

func TestDependencyRef_String(t *testing.T) {
	assert.Equal(t, "Az.Accounts", domain.DependencyRef{Name: "Az.Accounts"}.String())
	assert.Equal(t, "Az.Accounts 2.0.0", domain.DependencyRef{Name: "Az.Accounts", VersionSpec: "2.0.0"}.String())

	refs, err := domain.ParseDependencies("Az.Accounts:[2.12.1, ):")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Az.Accounts 2.12.1, )", refs[0].String())
}
