package notifier

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockreport/internal/credstore"
	"stockreport/internal/model"
)

type fakeTransport struct {
	sent []*Message
	err  error
}

func (f *fakeTransport) Send(_ context.Context, msg *Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return msg.ID, nil
}

type failingStore struct{}

func (failingStore) Scan(context.Context) ([]model.Credential, error) {
	return nil, errors.New("table unreachable")
}

func creds() []model.Credential {
	return []model.Credential{
		{Role: "sender", Address: "reports@example.com"},
		{Role: "recipient1", Address: "a@example.com"},
		{Role: "recipient2", Address: "b@example.com"},
		{Role: "auditor", Address: "ignored@example.com"},
	}
}

func TestResolveAddresses(t *testing.T) {
	from, to, err := ResolveAddresses(creds())
	require.NoError(t, err)
	assert.Equal(t, "reports@example.com", from)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, to)
}

func TestResolveAddresses_Misconfigured(t *testing.T) {
	tests := []struct {
		name  string
		creds []model.Credential
	}{
		{"empty", nil},
		{"sender only", []model.Credential{{Role: "sender", Address: "s@example.com"}}},
		{"recipients only", []model.Credential{{Role: "recipient", Address: "r@example.com"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ResolveAddresses(tt.creds)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC)
	html := "<html><body><h1>Report</h1></body></html>"
	msg, err := BuildMessage("reports@example.com", []string{"a@example.com", "b@example.com"}, html, now)
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)

	mr, err := mail.CreateReader(bytes.NewReader(msg.Raw))
	require.NoError(t, err)
	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, Subject, subject)
	assert.Equal(t, "reports@example.com", mr.Header.Get("From"))
	assert.Equal(t, "a@example.com, b@example.com", mr.Header.Get("To"))

	var body, attachment string
	var filename string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(p.Body)
		require.NoError(t, err)
		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			body = string(data)
		case *mail.AttachmentHeader:
			filename, _ = h.Filename()
			ct, _, _ := h.ContentType()
			assert.Equal(t, "application/octet-stream", ct)
			assert.Equal(t, "base64", h.Get("Content-Transfer-Encoding"))
			attachment = string(data)
		}
	}
	assert.Contains(t, body, "7-day, 30-day, 6-month, 1-year, YTD, and 5-year")
	assert.Equal(t, AttachmentName, filename)
	assert.Equal(t, html, attachment)
}

func TestNotifier_Send(t *testing.T) {
	tr := &fakeTransport{}
	n := New(credstore.NewStaticStore(creds()), tr)

	id, err := n.Send(context.Background(), "<html></html>")
	require.NoError(t, err)
	require.Len(t, tr.sent, 1)
	assert.Equal(t, tr.sent[0].ID, id)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, tr.sent[0].To)
}

func TestNotifier_SenderOnlyDoesNotTransmit(t *testing.T) {
	tr := &fakeTransport{}
	n := New(credstore.NewStaticStore([]model.Credential{{Role: "sender", Address: "s@example.com"}}), tr)

	_, err := n.Send(context.Background(), "<html></html>")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Empty(t, tr.sent)
}

func TestNotifier_Failures(t *testing.T) {
	_, err := New(failingStore{}, &fakeTransport{}).Send(context.Background(), "x")
	assert.ErrorContains(t, err, "table unreachable")

	tr := &fakeTransport{err: errors.New("relay rejected")}
	_, err = New(credstore.NewStaticStore(creds()), tr).Send(context.Background(), "x")
	assert.ErrorContains(t, err, "relay rejected")
}
