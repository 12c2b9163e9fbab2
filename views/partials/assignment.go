package partials

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// AssignmentRow describes the occupant of a slot on the admin slot table.
type AssignmentRow struct {
	SlotID      uint
	CompanyID   uint
	CompanyName string
	DisplayName string
	IsFeatured  bool
	CsrfToken   string
}

// SlotOccupant renders the occupant cell of a slot row, or the vacant
// marker when row is nil. slotID is used for the element id either way.
func SlotOccupant(slotID uint, row *AssignmentRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if row == nil {
			_, err := fmt.Fprintf(w, `<td id="slot-%d-occupant" class="muted">Vacant</td>`, slotID)
			return err
		}
		name := row.CompanyName
		if row.DisplayName != "" {
			name = row.DisplayName + " (" + row.CompanyName + ")"
		}
		badge := ""
		if row.IsFeatured {
			badge = ` <span class="badge badge-featured">Featured</span>`
		}
		_, err := fmt.Fprintf(w,
			`<td id="slot-%d-occupant">%s%s `+
				`<form method="post" action="/admin/slots/%d/unassign" hx-post="/admin/slots/%d/unassign" hx-target="#slot-%d-occupant" hx-swap="outerHTML" class="inline">`+
				`<input type="hidden" name="_csrf" value="%s"><input type="hidden" name="company_id" value="%d">`+
				`<button type="submit" class="btn btn-small btn-danger">Unassign</button></form></td>`,
			slotID, template.HTMLEscapeString(name), badge,
			slotID, slotID, slotID,
			template.HTMLEscapeString(row.CsrfToken), row.CompanyID)
		return err
	})
}
