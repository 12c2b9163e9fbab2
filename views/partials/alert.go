// Package partials renders the small HTML fragments swapped in by HTMX on
// the admin screens.
package partials

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// Alert kinds map to the stylesheet's alert modifiers.
const (
	AlertSuccess = "success"
	AlertError   = "error"
	AlertInfo    = "info"
)

// Alert is a dismissable message box.
func Alert(kind, message string) templ.Component {
	switch kind {
	case AlertSuccess, AlertError, AlertInfo:
	default:
		kind = AlertInfo
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-%s" role="alert" data-dismissable>%s</div>`,
			kind, template.HTMLEscapeString(message))
		return err
	})
}
