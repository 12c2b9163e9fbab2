package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Calgary", "calgary"},
		{"  Red Deer ", "red-deer"},
		{"Plumbing & Heating", "plumbing-heating"},
		{"--a--b--", "a-b"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSlug(tt.in), tt.in)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("calgary"))
	assert.True(t, IsValidSlug("red-deer"))
	assert.False(t, IsValidSlug("Red-Deer"))
	assert.False(t, IsValidSlug("-calgary"))
	assert.False(t, IsValidSlug("a--b"))
	assert.False(t, IsValidSlug(""))
}

func TestCityBeforeSaveDerivesRegionSlug(t *testing.T) {
	c := &City{Name: "Calgary", Slug: " Calgary ", RegionCode: " AB "}
	require.NoError(t, c.BeforeSave(nil))
	assert.Equal(t, "calgary", c.Slug)
	assert.Equal(t, "ab", c.RegionSlug)
}

func TestVisibility(t *testing.T) {
	global := VisibilityFromCityIDs(nil)
	assert.True(t, global.IsGlobal())
	assert.True(t, global.Includes(42))
	assert.Nil(t, global.CityIDs())

	scoped := ScopedVisibility(1, 3, 3, 0)
	assert.False(t, scoped.IsGlobal())
	assert.Equal(t, []uint{1, 3}, scoped.CityIDs())
	assert.True(t, scoped.Includes(3))
	assert.False(t, scoped.Includes(2))

	assert.Equal(t, BlogVisibilityGlobal, global.Scope())
	assert.Equal(t, BlogVisibilityScoped, scoped.Scope())

	post := &BlogPost{VisibilityScope: BlogVisibilityScoped, Cities: []City{{ID: 7}}}
	assert.True(t, post.Visibility().Includes(7))
	assert.False(t, post.Visibility().Includes(8))

	// a scoped post whose cities are gone stays scoped and shows nowhere
	orphan := &BlogPost{VisibilityScope: BlogVisibilityScoped}
	assert.False(t, orphan.Visibility().IsGlobal())
	assert.False(t, orphan.Visibility().Includes(7))
	assert.Empty(t, orphan.Visibility().CityIDs())
}

func TestCompanySetGallery(t *testing.T) {
	c := &Company{}
	err := c.SetGallery([]GalleryImage{{URL: "https://x/a.jpg"}, {}, {PublicID: "b"}}, 1)
	require.NoError(t, err)

	var got []GalleryImage
	require.NoError(t, json.Unmarshal(c.GalleryImages, &got))
	assert.Len(t, got, 2)
	assert.Equal(t, 1, c.GalleryFeaturedIndex)

	six := make([]GalleryImage, 6)
	for i := range six {
		six[i] = GalleryImage{URL: "https://x/i.jpg"}
	}
	assert.ErrorIs(t, c.SetGallery(six, 0), ErrGalleryTooLarge)
	assert.ErrorIs(t, c.SetGallery(six[:2], 2), ErrGalleryFeaturedOutRange)
}

func TestCompanySetServicesOffered(t *testing.T) {
	c := &Company{}
	require.NoError(t, c.SetServicesOffered([]string{"<p>a</p>", "  ", "b"}))
	assert.JSONEq(t, `["<p>a</p>","b"]`, string(c.ServicesOffered))

	assert.ErrorIs(t, c.SetServicesOffered([]string{"1", "2", "3", "4", "5", "6", "7"}), ErrTooManyServicesOffered)
}

func TestSubscriptionSameTerms(t *testing.T) {
	planA, planB := uint(1), uint(2)
	base := Subscription{Tier: SubscriptionTierFeatured, Interval: SubscriptionIntervalMonth, Currency: "CAD", PriceCents: 4900, PlanID: &planA}

	same := base
	same.Status = SubscriptionStatusPastDue
	assert.True(t, base.SameTerms(&same))

	other := base
	other.PlanID = &planB
	assert.False(t, base.SameTerms(&other))

	pricier := base
	pricier.PriceCents = 9900
	assert.False(t, base.SameTerms(&pricier))
}

func TestUserPassword(t *testing.T) {
	u, err := CreateUser("Admin User", " Admin@Example.com ", "secret123", ROLE_ADMIN)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.True(t, u.IsAdmin())

	_, err = CreateUser("Admin User", "a@example.com", "123", ROLE_ADMIN)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0.00", FormatPrice(0))
	assert.Equal(t, "49.00", FormatPrice(4900))
	assert.Equal(t, "0.05", FormatPrice(5))
	assert.Equal(t, "-12.50", FormatPrice(-1250))

	p := &Plan{PriceCents: 4900, Currency: "CAD", Interval: SubscriptionIntervalMonth}
	assert.Equal(t, "49.00", p.PriceInput())
	assert.Equal(t, "49.00 CAD / month", p.PriceLabel())
}
