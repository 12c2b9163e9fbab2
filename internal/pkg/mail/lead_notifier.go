package mail

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/ManuelReschke/LocalPros/app/models"
	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
)

// LeadNotifier mails new leads to the operators.
type LeadNotifier struct {
	mailer    *Mailer
	recipient string
	wg        sync.WaitGroup
}

// NewLeadNotifierFromEnv returns nil unless both SMTP_HOST and
// LEAD_NOTIFY_EMAIL are set.
func NewLeadNotifierFromEnv() *LeadNotifier {
	recipient := strings.TrimSpace(env.GetEnv("LEAD_NOTIFY_EMAIL", ""))
	m := NewFromEnv()
	if m == nil || recipient == "" {
		return nil
	}
	return NewLeadNotifier(m, recipient)
}

func NewLeadNotifier(m *Mailer, recipient string) *LeadNotifier {
	return &LeadNotifier{mailer: m, recipient: recipient}
}

// Notify sends the lead in the background. Errors are logged by the mailer.
func (n *LeadNotifier) Notify(lead *models.Lead) {
	if n == nil || lead == nil {
		return
	}
	subject, body := LeadSubject(lead), LeadBody(lead)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		_ = n.mailer.Send(n.recipient, subject, body)
	}()
}

// Wait blocks until queued notifications are sent.
func (n *LeadNotifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}

func LeadSubject(lead *models.Lead) string {
	if lead.Kind == models.LeadKindListingClaim {
		return fmt.Sprintf("[LocalPros] Listing claim: %s in %s", lead.ServiceSlug, lead.CitySlug)
	}
	return "[LocalPros] New contact request from " + lead.Name
}

// LeadBody renders the lead as escaped HTML.
func LeadBody(lead *models.Lead) string {
	rows := [][2]string{
		{"Reference", lead.Reference},
		{"Name", lead.Name},
		{"Email", lead.Email},
		{"Phone", lead.Phone},
		{"Company", lead.CompanyName},
		{"City", lead.CitySlug},
		{"Service", lead.ServiceSlug},
	}

	var b strings.Builder
	b.WriteString("<table>")
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "<tr><th align=\"left\">%s</th><td>%s</td></tr>", r[0], html.EscapeString(r[1]))
	}
	b.WriteString("</table>")
	if lead.Message != "" {
		b.WriteString("<p>" + strings.ReplaceAll(html.EscapeString(lead.Message), "\n", "<br>") + "</p>")
	}
	return b.String()
}
