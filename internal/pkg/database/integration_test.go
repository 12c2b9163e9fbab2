//go:build integration
// +build integration

package database_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/database"
	"github.com/ManuelReschke/LocalPros/internal/pkg/subscription"
)

// setupTestDB starts PostgreSQL and migrates the schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("localpros_test"),
		postgres.WithUsername("localpros"),
		postgres.WithPassword("localpros"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedSlot(t *testing.T, db *gorm.DB) (*models.ServiceCitySlot, *models.Company, *models.Company) {
	t.Helper()
	city := &models.City{Name: "Calgary", Slug: "calgary", RegionCode: "AB"}
	require.NoError(t, db.Create(city).Error)
	service := &models.Service{Name: "Plumbing", Slug: "plumbing"}
	require.NoError(t, db.Create(service).Error)
	slot := &models.ServiceCitySlot{CityID: city.ID, ServiceID: service.ID}
	require.NoError(t, db.Omit("City", "Service").Create(slot).Error)

	acme := &models.Company{Name: "Acme Plumbing"}
	require.NoError(t, db.Create(acme).Error)
	rival := &models.Company{Name: "Rival Pipes"}
	require.NoError(t, db.Create(rival).Error)
	return slot, acme, rival
}

func TestIntegration_SlotHoldsOneCompany(t *testing.T) {
	db := setupTestDB(t)
	slot, acme, rival := seedSlot(t, db)
	repo := repository.NewAssignmentRepository(db)
	ctx := context.Background()

	_, err := repo.Assign(ctx, repository.AssignInput{CompanyID: acme.ID, SlotID: slot.ID, IsFeatured: true})
	require.NoError(t, err)

	_, err = repo.Assign(ctx, repository.AssignInput{CompanyID: rival.ID, SlotID: slot.ID})
	var occupied *repository.SlotOccupiedError
	require.ErrorAs(t, err, &occupied)
	assert.Equal(t, acme.ID, occupied.CompanyID)

	name := "  Acme Calgary  "
	listing, err := repo.Assign(ctx, repository.AssignInput{CompanyID: acme.ID, SlotID: slot.ID, DisplayName: &name})
	require.NoError(t, err)
	require.NotNil(t, listing.DisplayName)
	assert.Equal(t, "Acme Calgary", *listing.DisplayName)
	assert.False(t, listing.IsFeatured)

	require.NoError(t, repo.Unassign(ctx, acme.ID, slot.ID))
	_, err = repo.Assign(ctx, repository.AssignInput{CompanyID: rival.ID, SlotID: slot.ID})
	require.NoError(t, err)

	rows, err := repo.GetBySlot(slot.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rival.ID, rows[0].CompanyID)
}

func TestIntegration_ConcurrentAssignKeepsOneWinner(t *testing.T) {
	db := setupTestDB(t)
	slot, acme, rival := seedSlot(t, db)
	repo := repository.NewAssignmentRepository(db)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, companyID := range []uint{acme.ID, rival.ID} {
		wg.Add(1)
		go func(i int, companyID uint) {
			defer wg.Done()
			_, errs[i] = repo.Assign(context.Background(), repository.AssignInput{CompanyID: companyID, SlotID: slot.ID})
		}(i, companyID)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			failures++
			var occupied *repository.SlotOccupiedError
			assert.True(t, errors.As(err, &occupied) || errors.Is(err, repository.ErrAssignmentConflict), err.Error())
		}
	}
	assert.Equal(t, 1, failures)

	rows, err := repo.GetBySlot(slot.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestIntegration_SubscriptionLedgerKeepsOneCurrent(t *testing.T) {
	db := setupTestDB(t)
	_, acme, _ := seedSlot(t, db)
	svc := subscription.NewServiceFromDB(db)
	ctx := context.Background()

	_, change, err := svc.SetCurrent(ctx, acme.ID, subscription.Input{
		Tier: models.SubscriptionTierBasic, Interval: models.SubscriptionIntervalMonth,
		Status: models.SubscriptionStatusActive, Currency: "CAD", PriceCents: 4900, CustomLabel: "Launch",
	})
	require.NoError(t, err)
	assert.Equal(t, subscription.ChangeStarted, change)

	_, change, err = svc.SetCurrent(ctx, acme.ID, subscription.Input{
		Tier: models.SubscriptionTierBasic, Interval: models.SubscriptionIntervalMonth,
		Status: models.SubscriptionStatusPastDue, Currency: "CAD", PriceCents: 4900, CustomLabel: "Launch",
	})
	require.NoError(t, err)
	assert.Equal(t, subscription.ChangeStatusUpdated, change)

	current, change, err := svc.SetCurrent(ctx, acme.ID, subscription.Input{
		Tier: models.SubscriptionTierFeatured, Interval: models.SubscriptionIntervalYear,
		Status: models.SubscriptionStatusActive, Currency: "CAD", PriceCents: 99000, CustomLabel: "Featured yearly",
	})
	require.NoError(t, err)
	assert.Equal(t, subscription.ChangeUpgraded, change)
	assert.True(t, current.IsCurrent)

	var rows []models.Subscription
	require.NoError(t, db.Where("company_id = ?", acme.ID).Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.False(t, rows[0].IsCurrent)
	assert.NotNil(t, rows[0].EndedAt)
	assert.Nil(t, rows[0].CurrentCompanyID)
	assert.True(t, rows[1].IsCurrent)
	require.NotNil(t, rows[1].CurrentCompanyID)
	assert.Equal(t, acme.ID, *rows[1].CurrentCompanyID)

	dup := rows[1]
	dup.ID = 0
	err = db.Omit("Company", "Plan").Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func publishedTitles(t *testing.T, repo repository.BlogRepository, cityID uint) []string {
	t.Helper()
	posts, err := repo.GetPublishedForCity(cityID, 0, 20)
	require.NoError(t, err)
	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	return titles
}

func TestIntegration_ScopedPostStaysHiddenWhenItsCityIsDeleted(t *testing.T) {
	db := setupTestDB(t)
	cities := repository.NewCityRepository(db)
	blog := repository.NewBlogRepository(db)

	calgary := &models.City{Name: "Calgary", Slug: "calgary", RegionCode: "AB"}
	require.NoError(t, cities.Create(calgary))
	edmonton := &models.City{Name: "Edmonton", Slug: "edmonton", RegionCode: "AB"}
	require.NoError(t, cities.Create(edmonton))

	local := &models.BlogPost{Title: "Calgary hail season", Slug: "calgary-hail-season", ContentHTML: "<p>Hail.</p>", Status: models.BlogStatusPublished}
	require.NoError(t, blog.Create(local, []uint{calgary.ID}))
	everywhere := &models.BlogPost{Title: "Hiring a roofer", Slug: "hiring-a-roofer", ContentHTML: "<p>Ask.</p>", Status: models.BlogStatusPublished}
	require.NoError(t, blog.Create(everywhere, nil))

	assert.ElementsMatch(t, []string{"Calgary hail season", "Hiring a roofer"}, publishedTitles(t, blog, calgary.ID))
	assert.Equal(t, []string{"Hiring a roofer"}, publishedTitles(t, blog, edmonton.ID))

	require.NoError(t, cities.Delete(context.Background(), calgary.ID))

	assert.Equal(t, []string{"Hiring a roofer"}, publishedTitles(t, blog, edmonton.ID))
	reloaded, err := blog.GetByID(local.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BlogVisibilityScoped, reloaded.VisibilityScope)
	assert.Empty(t, reloaded.Cities)
	assert.False(t, reloaded.Visibility().Includes(edmonton.ID))

	// selecting only cities that no longer exist keeps the post scoped
	require.NoError(t, blog.Update(reloaded, []uint{calgary.ID}))
	assert.Equal(t, []string{"Hiring a roofer"}, publishedTitles(t, blog, edmonton.ID))
}
