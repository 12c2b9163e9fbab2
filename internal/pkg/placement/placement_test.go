package placement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
)

// fakeAssigner keeps assignments in memory and decides exclusivity with
// repository.ExclusiveHolder, the rule the gorm repository applies inside
// its locked transaction. The locking and unique-index side is covered by
// the integration tests in internal/pkg/database.
type fakeAssigner struct {
	bySlot map[uint]*models.CompanyListing
	rows   int
}

func (f *fakeAssigner) Assign(_ context.Context, in repository.AssignInput) (*models.CompanyListing, error) {
	if in.SlotID != 10 {
		return nil, repository.ErrSlotNotFound
	}
	var existing []models.CompanyListing
	if cur, ok := f.bySlot[in.SlotID]; ok {
		existing = append(existing, *cur)
	}
	current, err := repository.ExclusiveHolder(in.SlotID, existing, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		cur := f.bySlot[in.SlotID]
		cur.IsFeatured = in.IsFeatured
		cur.DisplayName = in.DisplayName
		return cur, nil
	}
	l := &models.CompanyListing{CompanyID: in.CompanyID, ServiceCitySlotID: in.SlotID, IsFeatured: in.IsFeatured, DisplayName: in.DisplayName, Company: models.Company{ID: in.CompanyID, Name: "Acme"}}
	f.bySlot[in.SlotID] = l
	f.rows++
	return l, nil
}

func (f *fakeAssigner) Unassign(_ context.Context, companyID, slotID uint) error {
	cur, ok := f.bySlot[slotID]
	if !ok || cur.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	delete(f.bySlot, slotID)
	return nil
}

type fakeSlots struct{}

func (fakeSlots) GetByID(id uint) (*models.ServiceCitySlot, error) {
	if id != 10 {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.ServiceCitySlot{ID: 10, City: models.City{Slug: "calgary"}, Service: models.Service{Slug: "plumbing"}}, nil
}

type recordingCache struct {
	prefixes []string
}

func (r *recordingCache) Invalidate(prefixes ...string) {
	r.prefixes = append(r.prefixes, prefixes...)
}

func newTestService() (*Service, *fakeAssigner, *recordingCache) {
	a := &fakeAssigner{bySlot: map[uint]*models.CompanyListing{}}
	c := &recordingCache{}
	return NewService(a, fakeSlots{}, c), a, c
}

func TestSlotExclusivity(t *testing.T) {
	svc, assigner, cache := newTestService()
	ctx := context.Background()

	_, err := svc.Assign(ctx, repository.AssignInput{CompanyID: 1, SlotID: 10})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, repository.AssignInput{CompanyID: 2, SlotID: 10})
	assert.ErrorIs(t, err, repository.ErrSlotOccupied)
	assert.Contains(t, err.Error(), "assigned to Acme, unassign it first")
	assert.Equal(t, uint(1), assigner.bySlot[10].CompanyID)

	l, err := svc.Assign(ctx, repository.AssignInput{CompanyID: 1, SlotID: 10, IsFeatured: true})
	require.NoError(t, err)
	assert.True(t, l.IsFeatured)
	assert.Equal(t, 1, assigner.rows)

	assert.Equal(t, []string{"/calgary/services", "/calgary/services"}, cache.prefixes)
}

func TestAssignUnknownSlot(t *testing.T) {
	svc, _, cache := newTestService()
	_, err := svc.Assign(context.Background(), repository.AssignInput{CompanyID: 1, SlotID: 99})
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)
	assert.Empty(t, cache.prefixes)
}

func TestUnassignFreesSlot(t *testing.T) {
	svc, assigner, cache := newTestService()
	ctx := context.Background()

	_, err := svc.Assign(ctx, repository.AssignInput{CompanyID: 1, SlotID: 10})
	require.NoError(t, err)
	require.NoError(t, svc.Unassign(ctx, 1, 10))
	assert.Empty(t, assigner.bySlot)

	_, err = svc.Assign(ctx, repository.AssignInput{CompanyID: 2, SlotID: 10})
	require.NoError(t, err)
	assert.Len(t, cache.prefixes, 3)

	assert.ErrorIs(t, svc.Unassign(ctx, 1, 10), gorm.ErrRecordNotFound)
}
