package mail

import (
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LocalPros/app/models"
)

func TestBuildMessageStripsHeaderBreaks(t *testing.T) {
	msg := string(BuildMessage("a@x.test", "b@x.test", "Hi\r\nBcc: evil@x.test", "<p>body</p>"))
	assert.Contains(t, msg, "Subject: Hi  Bcc: evil@x.test\r\n")
	assert.NotContains(t, msg, "\r\nBcc:")
	assert.Contains(t, msg, "\r\n\r\n<p>body</p>")
}

func TestNewFromEnvDisabledWithoutHost(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	assert.Nil(t, NewFromEnv())

	t.Setenv("LEAD_NOTIFY_EMAIL", "ops@x.test")
	assert.Nil(t, NewLeadNotifierFromEnv())
}

func TestLeadNotifierSendsEscapedLead(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m := &Mailer{Host: "smtp.x.test", Port: "25", Sender: "site@x.test"}
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	n := NewLeadNotifier(m, "ops@x.test")
	n.Notify(&models.Lead{
		Kind:        models.LeadKindListingClaim,
		Name:        "Sam <script>",
		Email:       "sam@roofs.test",
		CitySlug:    "calgary",
		ServiceSlug: "roofing",
		Message:     "line one\nline two",
	})
	n.Wait()

	require.NotNil(t, gotMsg)
	assert.Equal(t, "smtp.x.test:25", gotAddr)
	assert.Equal(t, "site@x.test", gotFrom)
	assert.Equal(t, []string{"ops@x.test"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: [LocalPros] Listing claim: roofing in calgary")
	assert.Contains(t, msg, "Sam &lt;script&gt;")
	assert.Contains(t, msg, "line one<br>line two")
}

func TestNilNotifierIsNoop(t *testing.T) {
	var n *LeadNotifier
	n.Notify(&models.Lead{Name: "x"})
	n.Wait()
}
