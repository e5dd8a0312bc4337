package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCityServiceParsesBundledData(t *testing.T) {
	cs, err := NewCityService(nil)
	require.NoError(t, err)
	require.NotEmpty(t, cs.cities)

	for _, city := range cs.cities {
		assert.NotEmpty(t, city.Name)
		assert.NotEmpty(t, city.State)
		assert.Greater(t, city.Population, 0)
	}
}

func TestCityDetails(t *testing.T) {
	cs, err := NewCityService(nil)
	require.NoError(t, err)

	city, err := cs.CityDetails("Pune")
	require.NoError(t, err)
	assert.Equal(t, "Pune", city.Name)
	assert.Equal(t, "Maharashtra", city.State)
}

func TestCityDetailsCaseInsensitive(t *testing.T) {
	cs, err := NewCityService(nil)
	require.NoError(t, err)

	city, err := cs.CityDetails("bengaluru")
	require.NoError(t, err)
	assert.Equal(t, "Bengaluru", city.Name)
}

func TestCityDetailsNotFound(t *testing.T) {
	cs, err := NewCityService(nil)
	require.NoError(t, err)

	_, err = cs.CityDetails("Atlantis")
	assert.ErrorIs(t, err, ErrCityNotFound)
}
