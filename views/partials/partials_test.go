package partials

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertEscapesMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Alert(AlertError, `<b>Acme</b> holds the slot`).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `alert-error`)
	assert.Contains(t, buf.String(), `&lt;b&gt;Acme&lt;/b&gt;`)
}

func TestAlertUnknownKindFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Alert("shout", "hi").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `alert-info`)
}

func TestSlotOccupant(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SlotOccupant(4, nil).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `id="slot-4-occupant"`)
	assert.Contains(t, buf.String(), `Vacant`)

	buf.Reset()
	row := &AssignmentRow{SlotID: 4, CompanyID: 9, CompanyName: "Acme", IsFeatured: true, CsrfToken: "tok"}
	require.NoError(t, SlotOccupant(4, row).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `Acme`)
	assert.Contains(t, buf.String(), `Featured`)
	assert.Contains(t, buf.String(), `value="9"`)
	assert.Contains(t, buf.String(), `/admin/slots/4/unassign`)
}
