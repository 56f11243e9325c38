package notifier

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"stockreport/internal/model"
)

const (
	Subject        = "Daily Stock Market Analysis Report"
	AttachmentName = "stock_report.html"
)

// ErrConfiguration means the credential records do not name a usable
// sender and at least one recipient.
var ErrConfiguration = errors.New("email credentials misconfigured")

const bodyText = `Dear User,

Today's Daily Stock Market Analysis Report is now available, offering insights on key stocks across 7-day, 30-day, 6-month, 1-year, YTD, and 5-year timeframes.

Report Highlights:

- Stock Classification (Bullish, Bearish, Stable)
- Price and Volume Visualizations
- Technical Indicators (Moving Averages, RSI, Bollinger Bands)
- Key Metrics (Closing prices, volatility, gains/losses, volume trends)
- Performance Summaries

Please review the attached HTML file for the full report.

Best regards,
Stock Report
`

// ResolveAddresses picks the sender and the recipients, in record order.
// When several sender records exist the last one wins.
func ResolveAddresses(creds []model.Credential) (string, []string, error) {
	var sender string
	var recipients []string
	for _, c := range creds {
		switch {
		case c.IsSender():
			sender = c.Address
		case c.IsRecipient():
			recipients = append(recipients, c.Address)
		}
	}
	if sender == "" {
		return "", nil, fmt.Errorf("no sender record: %w", ErrConfiguration)
	}
	if len(recipients) == 0 {
		return "", nil, fmt.Errorf("no recipient records: %w", ErrConfiguration)
	}
	return sender, recipients, nil
}

// Message is a fully encoded email ready for transmission.
type Message struct {
	ID   string
	From string
	To   []string
	Raw  []byte
}

// BuildMessage encodes a multipart message carrying a short plain-text body
// and the report as an HTML attachment.
func BuildMessage(from string, to []string, html string, now time.Time) (*Message, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetSubject(Subject)
	// Addresses are copied verbatim into the headers.
	h.Set("From", from)
	h.Set("To", strings.Join(to, ", "))
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}
	id, err := h.MessageID()
	if err != nil {
		return nil, fmt.Errorf("read message id: %w", err)
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create writer: %w", err)
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline: %w", err)
	}
	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	pw, err := iw.CreatePart(th)
	if err != nil {
		return nil, fmt.Errorf("create body part: %w", err)
	}
	if _, err := pw.Write([]byte(bodyText)); err != nil {
		return nil, fmt.Errorf("write body: %w", err)
	}
	if err := pw.Close(); err != nil {
		return nil, fmt.Errorf("close body: %w", err)
	}
	if err := iw.Close(); err != nil {
		return nil, fmt.Errorf("close inline: %w", err)
	}

	var ah mail.AttachmentHeader
	ah.SetContentType("application/octet-stream", map[string]string{"name": AttachmentName})
	ah.Set("Content-Transfer-Encoding", "base64")
	ah.SetFilename(AttachmentName)
	aw, err := mw.CreateAttachment(ah)
	if err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	if _, err := aw.Write([]byte(html)); err != nil {
		return nil, fmt.Errorf("write attachment: %w", err)
	}
	if err := aw.Close(); err != nil {
		return nil, fmt.Errorf("close attachment: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close message: %w", err)
	}

	return &Message{ID: id, From: from, To: to, Raw: buf.Bytes()}, nil
}
