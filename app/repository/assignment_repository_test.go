package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalPros/app/models"
)

func TestExclusiveHolderVacantSlot(t *testing.T) {
	current, err := ExclusiveHolder(10, nil, 1)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestExclusiveHolderSameCompanyUpdates(t *testing.T) {
	existing := []models.CompanyListing{{ID: 5, CompanyID: 1, ServiceCitySlotID: 10}}

	current, err := ExclusiveHolder(10, existing, 1)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, uint(5), current.ID)

	current.IsFeatured = true
	assert.False(t, existing[0].IsFeatured)
}

func TestExclusiveHolderRejectsOtherCompany(t *testing.T) {
	existing := []models.CompanyListing{{ID: 5, CompanyID: 1, ServiceCitySlotID: 10, Company: models.Company{ID: 1, Name: "Acme"}}}

	current, err := ExclusiveHolder(10, existing, 2)
	assert.Nil(t, current)
	require.ErrorIs(t, err, ErrSlotOccupied)

	var occupied *SlotOccupiedError
	require.True(t, errors.As(err, &occupied))
	assert.Equal(t, uint(10), occupied.SlotID)
	assert.Equal(t, uint(1), occupied.CompanyID)
	assert.Equal(t, "slot is already assigned to Acme, unassign it first", err.Error())
}

func TestExclusiveHolderRejectsWhenAnyRowIsForeign(t *testing.T) {
	existing := []models.CompanyListing{
		{ID: 5, CompanyID: 1, ServiceCitySlotID: 10, IsFeatured: true},
		{ID: 6, CompanyID: 2, ServiceCitySlotID: 10},
	}
	_, err := ExclusiveHolder(10, existing, 1)
	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestSlotOccupiedErrorWithoutName(t *testing.T) {
	err := &SlotOccupiedError{SlotID: 10, CompanyID: 3}
	assert.Equal(t, "slot is already assigned to company #3, unassign it first", err.Error())
}
