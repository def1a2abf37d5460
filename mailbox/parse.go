package mailbox

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/poiesic/mailsift/core"
)

// emailFromBuffer builds a domain email from a fetched message. Missing
// envelope fields come through as empty strings rather than errors so a
// single malformed message never fails a whole fetch.
func emailFromBuffer(buf *imapclient.FetchMessageBuffer, bodySection *imap.FetchItemBodySection, folder string) core.Email {
	email := core.Email{Folder: folder}

	if buf.Envelope != nil {
		email.Subject = buf.Envelope.Subject
		if !buf.Envelope.Date.IsZero() {
			email.Date = buf.Envelope.Date.Format(time.RFC1123Z)
		}
		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			if from.Name != "" {
				email.From = from.Name
			} else {
				email.From = from.Addr()
			}
		}
	}

	if rawBody := buf.FindBodySection(bodySection); rawBody != nil {
		email.Body = extractBody(rawBody)
	}

	email.Id = core.IDFromContent(email.ContentKey())
	return email
}

// extractBody pulls a text body out of a raw RFC 822 message. Plain text
// parts win over HTML; an HTML-only message is returned as-is, since body
// normalization strips markup downstream. An unparseable message is
// treated as plain text wholesale.
func extractBody(raw []byte) string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw)
	}
	defer mr.Close()

	var textBody, htmlBody string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			if textBody == "" {
				textBody = string(body)
			}
		case strings.HasPrefix(contentType, "text/html"):
			if htmlBody == "" {
				htmlBody = string(body)
			}
		}
	}

	if textBody != "" {
		return textBody
	}
	return htmlBody
}
