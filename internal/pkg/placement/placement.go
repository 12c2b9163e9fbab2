// Package placement applies admin slot assignments and refreshes the
// affected public pages.
package placement

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/listing"
)

type Assigner interface {
	Assign(ctx context.Context, in repository.AssignInput) (*models.CompanyListing, error)
	Unassign(ctx context.Context, companyID, slotID uint) error
}

type SlotLookup interface {
	GetByID(id uint) (*models.ServiceCitySlot, error)
}

// Invalidator drops cached pages under the given path prefixes.
type Invalidator interface {
	Invalidate(prefixes ...string)
}

type Service struct {
	assignments Assigner
	slots       SlotLookup
	cache       Invalidator
}

func NewService(assignments Assigner, slots SlotLookup, cache Invalidator) *Service {
	return &Service{assignments: assignments, slots: slots, cache: cache}
}

// Assign places the company in the slot. A slot held by another company
// fails with an error matching repository.ErrSlotOccupied and nothing is
// written.
func (s *Service) Assign(ctx context.Context, in repository.AssignInput) (*models.CompanyListing, error) {
	result, err := s.assignments.Assign(ctx, in)
	if err != nil {
		var occupied *repository.SlotOccupiedError
		if errors.As(err, &occupied) {
			log.Infof("[Placement] slot=%d refused for company=%d, held by company=%d", in.SlotID, in.CompanyID, occupied.CompanyID)
		}
		return nil, err
	}
	s.refresh(in.SlotID)
	return result, nil
}

// Unassign frees the slot.
func (s *Service) Unassign(ctx context.Context, companyID, slotID uint) error {
	if err := s.assignments.Unassign(ctx, companyID, slotID); err != nil {
		return err
	}
	s.refresh(slotID)
	return nil
}

// RefreshSlot drops cached pages showing the slot, e.g. after its content
// changed.
func (s *Service) RefreshSlot(slot *models.ServiceCitySlot) {
	if s.cache == nil || slot == nil || slot.City.Slug == "" {
		return
	}
	s.cache.Invalidate(listing.GridPath(slot.City.Slug))
}

func (s *Service) refresh(slotID uint) {
	if s.cache == nil {
		return
	}
	slot, err := s.slots.GetByID(slotID)
	if err != nil {
		log.Warnf("[Placement] slot=%d lookup for cache refresh: %v", slotID, err)
		return
	}
	s.RefreshSlot(slot)
}
