package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	registry, err := NewRegistry(writeProfile(t))
	require.NoError(t, err)

	profiles, err := registry.GetProfiles(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultProfile, "shop2"}, profiles)

	values, err := registry.GetProfile(t.Context(), "shop2")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"easycashier-username": "shop2-user",
		"bokio-company-id":     "shop2-company",
	}, values)

	_, err = registry.GetProfile(t.Context(), "missing")
	assert.EqualError(t, err, "profile missing not found")
}

func TestRegisterFlags_DefaultProfile(t *testing.T) {
	flags := parseFlags(t)

	profile, err := flags.GetString(KeyProfile)
	require.NoError(t, err)
	assert.Equal(t, "DEFAULT", profile)
	assert.Equal(t, "DEFAULT", DefaultProfile)
}
