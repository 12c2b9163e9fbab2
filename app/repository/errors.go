package repository

import (
	"errors"
	"fmt"
)

var (
	ErrSlotNotFound       = errors.New("service city slot not found")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrSlotOccupied       = errors.New("slot is already assigned to another company")
	ErrAssignmentConflict = errors.New("slot assignment changed concurrently, reload and try again")
	ErrDuplicatePair      = errors.New("service is already offered in this city")
)

// SlotOccupiedError names the company currently holding a slot.
type SlotOccupiedError struct {
	SlotID      uint
	CompanyID   uint
	CompanyName string
}

func (e *SlotOccupiedError) Error() string {
	name := e.CompanyName
	if name == "" {
		name = fmt.Sprintf("company #%d", e.CompanyID)
	}
	return fmt.Sprintf("slot is already assigned to %s, unassign it first", name)
}

func (e *SlotOccupiedError) Is(target error) bool {
	return target == ErrSlotOccupied
}
