package location

import (
	"testing"

	"sevasetu-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateNormalizesCase(t *testing.T) {
	loc, err := Validate("Vijayawada")
	assert.NoError(t, err)
	assert.Equal(t, "vijayawada", loc)

	loc, err = Validate("  VISAKHAPATNAM  ")
	assert.NoError(t, err)
	assert.Equal(t, "visakhapatnam", loc)
}

func TestValidateUnknownCityListsValidSet(t *testing.T) {
	_, err := Validate("Atlantis")
	assert.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrInvalidLocation))
	for _, city := range Cities {
		assert.Contains(t, err.Error(), city)
	}
}

func TestValidateEmpty(t *testing.T) {
	for _, raw := range []string{"", "   "} {
		_, err := Validate(raw)
		assert.True(t, models.IsKind(err, models.ErrInvalidLocation))
	}
}

func TestEveryCityValidates(t *testing.T) {
	for _, city := range Cities {
		loc, err := Validate(city)
		assert.NoError(t, err)
		assert.Equal(t, city, loc)
	}
}

func TestNearbyExcludesSelf(t *testing.T) {
	for _, city := range Cities {
		for _, n := range Nearby(city) {
			assert.NotEqual(t, city, n)
		}
	}
}

func TestNearbyCoastalGroup(t *testing.T) {
	nearby := Nearby("nellore")
	assert.Contains(t, nearby, "visakhapatnam")
	assert.Contains(t, nearby, "kakinada")
	assert.Contains(t, nearby, "rajahmundry")
	assert.NotContains(t, nearby, "guntur")
}

func TestNearbyIsSymmetric(t *testing.T) {
	for _, city := range Cities {
		for _, n := range Nearby(city) {
			assert.Contains(t, Nearby(n), city, "%s lists %s but not vice versa", city, n)
		}
	}
}

func TestNearbyUnknownCity(t *testing.T) {
	assert.Nil(t, Nearby("atlantis"))
}

func TestMatchOrderExactCityFirst(t *testing.T) {
	order := MatchOrder("nellore")
	assert.Equal(t, []string{"nellore", "visakhapatnam", "kakinada", "rajahmundry"}, order)
}

func TestMatchOrderUnknownCityIsJustItself(t *testing.T) {
	assert.Equal(t, []string{"atlantis"}, MatchOrder("atlantis"))
}

func TestGroupsSorted(t *testing.T) {
	assert.Equal(t, []string{"central", "coastal", "southern", "western"}, Groups())
}
