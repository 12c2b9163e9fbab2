package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagehost"
)

var calgary = &models.City{ID: 1, Name: "Calgary", Slug: "calgary", RegionCode: "AB"}

func plumbingSlot() *models.ServiceCitySlot {
	return &models.ServiceCitySlot{
		ID:        10,
		ServiceID: 3,
		CityID:    1,
		Service:   models.Service{ID: 3, Name: "Plumbing", Slug: "plumbing", Description: "Pipes and drains."},
	}
}

func acme() models.Company {
	return models.Company{ID: 7, Name: "Acme"}
}

func TestComposeDetailEndToEnd(t *testing.T) {
	slot := plumbingSlot()
	assignments := []models.CompanyListing{{ID: 1, CompanyID: 7, ServiceCitySlotID: 10, IsFeatured: true, Company: acme()}}

	detail := ComposeDetail(calgary, slot, assignments, imagehost.Resolver{})
	require.NotNil(t, detail)
	require.NotNil(t, detail.Listing)
	assert.Equal(t, "Acme", detail.Listing.DisplayName)
	assert.True(t, detail.Listing.IsFeatured)
	assert.Equal(t, "Plumbing", detail.ServiceName)
	assert.Equal(t, "calgary", detail.City.Slug)
	assert.Equal(t, "Acme provides Plumbing services in Calgary.", detail.Listing.Summary)
	assert.Equal(t, "<p>Pipes and drains.</p>", string(detail.ContentHTML))
}

func TestComposeDetailNoSlot(t *testing.T) {
	assert.Nil(t, ComposeDetail(calgary, nil, nil, imagehost.Resolver{}))
}

func TestComposeDetailVacant(t *testing.T) {
	detail := ComposeDetail(calgary, plumbingSlot(), nil, imagehost.Resolver{})
	require.NotNil(t, detail)
	assert.True(t, detail.IsVacant())
}

func TestComposeDetailContentOverride(t *testing.T) {
	slot := plumbingSlot()
	override := `<p>Calgary <em>specific</em></p><script>x</script>`
	slot.ContentHTML = &override

	detail := ComposeDetail(calgary, slot, nil, imagehost.Resolver{})
	assert.Equal(t, "<p>Calgary <em>specific</em></p>", string(detail.ContentHTML))
}

func TestComposeDetailDisplayNameOverride(t *testing.T) {
	name := "  Acme Plumbing Calgary "
	assignments := []models.CompanyListing{{ID: 1, DisplayName: &name, Company: acme()}}

	detail := ComposeDetail(calgary, plumbingSlot(), assignments, imagehost.Resolver{})
	assert.Equal(t, "Acme Plumbing Calgary", detail.Listing.DisplayName)
}

func TestComposeDetailPicksFeaturedThenOldest(t *testing.T) {
	now := time.Now()
	older := models.Company{ID: 1, Name: "Older"}
	newer := models.Company{ID: 2, Name: "Newer"}
	featured := models.Company{ID: 3, Name: "Featured"}

	detail := ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{
		{ID: 5, Company: newer, CreatedAt: now},
		{ID: 4, Company: older, CreatedAt: now.Add(-time.Hour)},
	}, imagehost.Resolver{})
	assert.Equal(t, "Older", detail.Listing.DisplayName)

	detail = ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{
		{ID: 4, Company: older, CreatedAt: now.Add(-time.Hour)},
		{ID: 6, Company: featured, CreatedAt: now, IsFeatured: true},
	}, imagehost.Resolver{})
	assert.Equal(t, "Featured", detail.Listing.DisplayName)
}

func TestHeroAndLogoFallbackChain(t *testing.T) {
	cdn := imagehost.Resolver{Domain: imagehost.DefaultDomain, Account: "localpros"}

	c := acme()
	c.HeroImageURL = "https://files.example/hero.jpg"
	l := ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{{Company: c}}, imagehost.Resolver{}).Listing
	assert.Equal(t, "https://files.example/hero.jpg", l.HeroImageURL)
	assert.Equal(t, imagehost.PlaceholderLogo, l.LogoURL)

	c.HeroImagePublicID = "companies/7/hero"
	l = ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{{Company: c}}, imagehost.Resolver{}).Listing
	assert.Equal(t, "https://files.example/hero.jpg", l.HeroImageURL)

	l = ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{{Company: c}}, cdn).Listing
	assert.Equal(t, "https://res.cloudinary.com/localpros/image/upload/f_auto,q_auto/companies/7/hero", l.HeroImageURL)

	l = ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{{Company: acme()}}, cdn).Listing
	assert.Equal(t, imagehost.PlaceholderHero, l.HeroImageURL)
}

func TestGalleryFeaturedFirst(t *testing.T) {
	c := acme()
	c.GalleryImages = datatypes.JSON(`[{"url":"https://x/0.jpg"},{"url":"https://x/1.jpg"},{"url":"https://x/2.jpg"}]`)
	c.GalleryFeaturedIndex = 1

	l := ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{{Company: c}}, imagehost.Resolver{}).Listing
	require.Len(t, l.Gallery, 3)
	assert.Equal(t, "https://x/1.jpg", l.Gallery[0].URL)
	assert.Equal(t, "https://x/0.jpg", l.Gallery[1].URL)
	assert.Equal(t, "https://x/2.jpg", l.Gallery[2].URL)
	assert.Equal(t, "Acme photo 1", l.Gallery[0].Alt)
}

func TestGalleryTruncatesToFive(t *testing.T) {
	c := acme()
	c.GalleryImages = datatypes.JSON(`[{"url":"a"},{"url":"b"},{"url":"c"},{"url":"d"},{"url":"e"},{"url":"f"}]`)

	l := ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{{Company: c}}, imagehost.Resolver{}).Listing
	assert.Len(t, l.Gallery, MaxGalleryDisplay)
}

func TestGalleryAcceptsStringWrappedJSONAndPublicIDs(t *testing.T) {
	c := acme()
	c.GalleryImages = datatypes.JSON(`"[{\"url\":\"https://x/raw.jpg\",\"publicId\":\"g/1\"},{\"url\":\"\"}]"`)
	cdn := imagehost.Resolver{Account: "localpros"}

	l := ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{{Company: c}}, cdn).Listing
	require.Len(t, l.Gallery, 1)
	assert.Equal(t, "https://res.cloudinary.com/localpros/image/upload/f_auto,q_auto/g/1", l.Gallery[0].URL)
}

func TestMalformedJSONDegradesToEmpty(t *testing.T) {
	c := acme()
	c.GalleryImages = datatypes.JSON(`{not json`)
	c.ServicesOffered = datatypes.JSON(`{"broken":`)

	l := ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{{Company: c}}, imagehost.Resolver{}).Listing
	assert.NotNil(t, l.ServicesOffered)
	assert.Empty(t, l.ServicesOffered)
	assert.Empty(t, l.Gallery)
}

func TestServicesOfferedDropsBlankAndCaps(t *testing.T) {
	c := acme()
	c.ServicesOffered = datatypes.JSON(`["<p>1</p>"," ","2","3","4","5","6","7"]`)

	l := ComposeDetail(calgary, plumbingSlot(), []models.CompanyListing{{Company: c}}, imagehost.Resolver{}).Listing
	require.Len(t, l.ServicesOffered, MaxServicesOfferedDisplay)
	assert.Equal(t, "<p>1</p>", string(l.ServicesOffered[0]))
	assert.Equal(t, "<p>2</p>", string(l.ServicesOffered[1]))
}

func TestFeaturedFirst(t *testing.T) {
	in := []int{0, 1, 2, 3}
	assert.Equal(t, []int{2, 0, 1, 3}, FeaturedFirst(in, 2))
	assert.Equal(t, []int{0, 1, 2, 3}, FeaturedFirst(in, 0))
	assert.Equal(t, []int{0, 1, 2, 3}, FeaturedFirst(in, 9))
	assert.Equal(t, []int{0, 1, 2, 3}, FeaturedFirst(in, -1))
	assert.Equal(t, []int{0, 1, 2, 3}, in)
}

func TestComposeCityGrid(t *testing.T) {
	slots := []models.ServiceCitySlot{
		{ID: 1, Service: models.Service{Name: "Electrical", Slug: "electrical", Order: 1}},
		{ID: 2, Service: models.Service{Name: "Plumbing", Slug: "plumbing", Order: 2}},
		{ID: 3, Service: models.Service{Name: "Roofing", Slug: "roofing", Order: 3}},
	}
	assignments := []models.CompanyListing{
		{ServiceCitySlotID: 1, Company: models.Company{Name: "Sparks"}},
		{ServiceCitySlotID: 3, Company: models.Company{Name: "TopRoof"}, IsFeatured: true},
	}

	grid := ComposeCityGrid(calgary, slots, assignments)
	require.Len(t, grid.Cards, 3)
	assert.Equal(t, "roofing", grid.Cards[0].ServiceSlug)
	assert.True(t, grid.Cards[0].IsFeatured)
	assert.Equal(t, "electrical", grid.Cards[1].ServiceSlug)
	assert.Equal(t, "Sparks", grid.Cards[1].CompanyName)
	assert.Equal(t, "plumbing", grid.Cards[2].ServiceSlug)
	assert.False(t, grid.Cards[2].HasProvider)
	assert.Equal(t, "/calgary/services/plumbing", grid.Cards[2].Href)
}
