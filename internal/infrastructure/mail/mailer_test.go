package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"onghub/internal/domain/organization"
)

type recordingSender struct {
	sent []*gomail.Message
	err  error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func TestRender_Restricted(t *testing.T) {
	m, err := NewWithSender(&recordingSender{}, "no-reply@onghub.ro", "ONG Hub")
	require.NoError(t, err)

	subject, body, err := m.Render(organization.TemplateOrganizationRestricted, map[string]any{
		"OrganizationName": "Asociatia <Test>",
	})

	require.NoError(t, err)
	assert.Equal(t, "Acces restrictionat pentru Asociatia &lt;Test&gt;", subject)
	assert.Contains(t, body, "<strong>Asociatia &lt;Test&gt;</strong>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	m, err := NewWithSender(&recordingSender{}, "a@b.ro", "")
	require.NoError(t, err)

	_, _, err = m.Render("missing", nil)
	assert.ErrorContains(t, err, "unknown mail template")
}

func TestSendTemplate(t *testing.T) {
	s := &recordingSender{}
	m, err := NewWithSender(s, "no-reply@onghub.ro", "ONG Hub")
	require.NoError(t, err)

	err = m.SendTemplate(context.Background(), []string{"a@ong.ro", "b@ong.ro"},
		organization.TemplateOrganizationRestricted, map[string]any{"OrganizationName": "X"})

	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	assert.Equal(t, []string{"a@ong.ro", "b@ong.ro"}, s.sent[0].GetHeader("Bcc"))

	var buf bytes.Buffer
	_, err = s.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ONG Hub")
}

func TestSendTemplate_NoRecipients(t *testing.T) {
	s := &recordingSender{}
	m, err := NewWithSender(s, "no-reply@onghub.ro", "ONG Hub")
	require.NoError(t, err)

	require.NoError(t, m.SendTemplate(context.Background(), nil, organization.TemplateOrganizationRestricted, nil))
	assert.Empty(t, s.sent)
}

func TestSendTemplate_SenderError(t *testing.T) {
	s := &recordingSender{err: errors.New("smtp down")}
	m, err := NewWithSender(s, "no-reply@onghub.ro", "ONG Hub")
	require.NoError(t, err)

	err = m.SendTemplate(context.Background(), []string{"a@ong.ro"}, organization.TemplateOrganizationRestricted, nil)
	assert.ErrorContains(t, err, "smtp down")
}
