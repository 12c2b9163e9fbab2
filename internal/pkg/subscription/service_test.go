package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
)

// memoryRepository mirrors the ledger semantics of the GORM repository.
type memoryRepository struct {
	plans  map[uint]*models.Plan
	rows   []*models.Subscription
	nextID uint
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{plans: map[uint]*models.Plan{}}
}

func (m *memoryRepository) GetPlan(id uint) (*models.Plan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRepository) current(companyID uint) *models.Subscription {
	for _, r := range m.rows {
		if r.CompanyID == companyID && r.IsCurrent {
			return r
		}
	}
	return nil
}

func (m *memoryRepository) GetCurrent(companyID uint) (*models.Subscription, error) {
	if cur := m.current(companyID); cur != nil {
		return cur, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRepository) ListByCompany(companyID uint) ([]models.Subscription, error) {
	var out []models.Subscription
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].CompanyID == companyID {
			out = append(out, *m.rows[i])
		}
	}
	return out, nil
}

func (m *memoryRepository) SwitchCurrent(_ context.Context, companyID uint, next *models.Subscription, now time.Time) (*models.Subscription, *models.Subscription, bool, error) {
	var previous *models.Subscription
	if cur := m.current(companyID); cur != nil {
		prev := *cur
		previous = &prev
		if cur.SameTerms(next) {
			cur.Status = next.Status
			return cur, previous, false, nil
		}
		cur.IsCurrent = false
		cur.CurrentCompanyID = nil
		cur.EndedAt = &now
	}
	m.nextID++
	id := companyID
	next.ID = m.nextID
	next.CompanyID = companyID
	next.IsCurrent = true
	next.CurrentCompanyID = &id
	next.StartedAt = now
	m.rows = append(m.rows, next)
	return next, previous, true, nil
}

func (m *memoryRepository) UpdateCurrentStatus(_ context.Context, companyID uint, status string) (*models.Subscription, error) {
	cur := m.current(companyID)
	if cur == nil {
		return nil, ErrNoCurrent
	}
	cur.Status = status
	return cur, nil
}

func (m *memoryRepository) EndCurrent(_ context.Context, companyID uint, now time.Time) error {
	cur := m.current(companyID)
	if cur == nil {
		return ErrNoCurrent
	}
	cur.IsCurrent = false
	cur.CurrentCompanyID = nil
	cur.EndedAt = &now
	return nil
}

func (m *memoryRepository) currentCount(companyID uint) int {
	n := 0
	for _, r := range m.rows {
		if r.CompanyID == companyID && r.IsCurrent {
			n++
		}
	}
	return n
}

func TestSetCurrentStartsLedger(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)

	sub, change, err := svc.SetCurrent(context.Background(), 1, Input{Tier: "basic", CustomLabel: "Intro deal", PriceCents: 1900})
	require.NoError(t, err)
	assert.Equal(t, ChangeStarted, change)
	assert.True(t, sub.IsCurrent)
	assert.Equal(t, "CAD", sub.Currency)
	assert.Equal(t, "month", sub.Interval)
	assert.Equal(t, "active", sub.Status)
}

func TestSetCurrentStatusOnlyUpdatesInPlace(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	_, _, err := svc.SetCurrent(ctx, 1, Input{Tier: "featured", CustomLabel: "Launch", PriceCents: 4900})
	require.NoError(t, err)

	sub, change, err := svc.SetCurrent(ctx, 1, Input{Tier: "featured", CustomLabel: "Launch", PriceCents: 4900, Status: "past_due"})
	require.NoError(t, err)
	assert.Equal(t, ChangeStatusUpdated, change)
	assert.Equal(t, "past_due", sub.Status)
	assert.Len(t, repo.rows, 1)
}

func TestSetCurrentTermsChangeAppendsRow(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	_, _, err := svc.SetCurrent(ctx, 1, Input{Tier: "basic", CustomLabel: "Starter", PriceCents: 1900})
	require.NoError(t, err)

	_, change, err := svc.SetCurrent(ctx, 1, Input{Tier: "premium", CustomLabel: "Starter", PriceCents: 9900})
	require.NoError(t, err)
	assert.Equal(t, ChangeUpgraded, change)

	_, change, err = svc.SetCurrent(ctx, 1, Input{Tier: "featured", CustomLabel: "Starter", PriceCents: 4900})
	require.NoError(t, err)
	assert.Equal(t, ChangeDowngraded, change)

	assert.Len(t, repo.rows, 3)
	assert.Equal(t, 1, repo.currentCount(1))

	history, err := svc.History(1)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "featured", history[0].Tier)
	assert.True(t, history[0].IsCurrent)
	assert.NotNil(t, history[1].EndedAt)
	assert.Nil(t, history[1].CurrentCompanyID)
}

func TestSetCurrentCopiesPlanTerms(t *testing.T) {
	repo := newMemoryRepository()
	repo.plans[5] = &models.Plan{ID: 5, Name: "Featured yearly", Tier: "featured", Interval: "year", Currency: "CAD", PriceCents: 49000}
	svc := NewService(repo)
	planID := uint(5)

	sub, _, err := svc.SetCurrent(context.Background(), 2, Input{PlanID: &planID, Tier: "basic", PriceCents: 1})
	require.NoError(t, err)
	assert.Equal(t, "featured", sub.Tier)
	assert.Equal(t, "year", sub.Interval)
	assert.Equal(t, int64(49000), sub.PriceCents)
	assert.Equal(t, "Featured yearly", sub.Label())
}

func TestSetCurrentValidation(t *testing.T) {
	svc := NewService(newMemoryRepository())
	ctx := context.Background()
	missing := uint(99)

	tests := []struct {
		name    string
		company uint
		in      Input
		want    error
	}{
		{"no company", 0, Input{Tier: "basic", CustomLabel: "x"}, ErrCompanyRequired},
		{"no label", 1, Input{Tier: "basic"}, ErrLabelRequired},
		{"bad tier", 1, Input{Tier: "gold", CustomLabel: "x"}, ErrInvalidTier},
		{"bad interval", 1, Input{Tier: "basic", Interval: "week", CustomLabel: "x"}, ErrInvalidInterval},
		{"bad status", 1, Input{Tier: "basic", Status: "gone", CustomLabel: "x"}, ErrInvalidStatus},
		{"bad currency", 1, Input{Tier: "basic", Currency: "dollars", CustomLabel: "x"}, ErrInvalidCurrency},
		{"negative price", 1, Input{Tier: "basic", PriceCents: -1, CustomLabel: "x"}, ErrNegativePrice},
		{"missing plan", 1, Input{PlanID: &missing}, ErrPlanNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SetCurrent(ctx, tt.company, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCancelAndEnd(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, 1)
	assert.ErrorIs(t, err, ErrNoCurrent)

	_, _, err = svc.SetCurrent(ctx, 1, Input{Tier: "basic", CustomLabel: "x"})
	require.NoError(t, err)

	sub, err := svc.Cancel(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "canceled", sub.Status)
	assert.Len(t, repo.rows, 1)

	require.NoError(t, svc.End(ctx, 1))
	cur, err := svc.Current(1)
	require.NoError(t, err)
	assert.Nil(t, cur)
}
