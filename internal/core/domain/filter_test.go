package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/modroll/internal/core/domain"
)

func TestNameFilter_Matches(t *testing.T) {
	tests := []struct {
		name     string
		filter   domain.NameFilter
		input    string
		expected bool
	}{
		{"NoPatterns", domain.NameFilter{}, "Anything", true},
		{"IncludeGlob", domain.NameFilter{Include: []string{"Az.*"}}, "Az.Storage", true},
		{"IncludeCaseInsensitive", domain.NameFilter{Include: []string{"az.*"}}, "Az.Storage", true},
		{"IncludeMiss", domain.NameFilter{Include: []string{"Az.*"}}, "AzureRM.Profile", false},
		{"Excluded", domain.NameFilter{Include: []string{"Az.*"}, Exclude: []string{"Az.Sql*"}}, "Az.SqlVirtualMachine", false},
		{"ExcludeOnly", domain.NameFilter{Exclude: []string{"Orchestrator.*"}}, "Az.Storage", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Matches(tt.input))
		})
	}
}

func TestNameFilter_Validate(t *testing.T) {
	assert.NoError(t, domain.NameFilter{Include: []string{"Az.*"}}.Validate())
	assert.Error(t, domain.NameFilter{Exclude: []string{"Az.["}}.Validate())
}
