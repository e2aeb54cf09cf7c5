package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltmpl "html/template"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"sync"
	texttmpl "text/template"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

var (
	parseOnce sync.Once
	parseErr  error
	textTmpls map[string]*texttmpl.Template
	htmlTmpls map[string]*htmltmpl.Template
)

// Template names. Each has a .txt and a .gohtml file rendered inside the _base layout.
const (
	TmplTestimonialSubmitted = "testimonial_submitted"
	TmplTestimonialApproved  = "testimonial_approved"
	TmplContactNotification  = "contact_notification"
	TmplContactAutoReply     = "contact_auto_reply"
	TmplBookingConfirmation  = "booking_confirmation"
	TmplBookingReminder      = "booking_reminder"
	TmplRSVPConfirmation     = "rsvp_confirmation"
	TmplWeeklySummary        = "weekly_summary"
)

var templateNames = []string{
	TmplTestimonialSubmitted,
	TmplTestimonialApproved,
	TmplContactNotification,
	TmplContactAutoReply,
	TmplBookingConfirmation,
	TmplBookingReminder,
	TmplRSVPConfirmation,
	TmplWeeklySummary,
}

// Message is one outbound email. Text and HTML are filled by Render.
type Message struct {
	To       []mail.Address
	ReplyTo  *mail.Address
	Subject  string
	Template string
	Data     any

	Text string
	HTML string
}

// templateContext is what every template sees as its root.
type templateContext struct {
	SiteName string
	SiteURL  string
	Year     int
	Data     any
}

func parseTemplates() {
	textTmpls = make(map[string]*texttmpl.Template, len(templateNames))
	htmlTmpls = make(map[string]*htmltmpl.Template, len(templateNames))
	for _, name := range templateNames {
		tt, err := texttmpl.New("_base.txt").Option("missingkey=error").
			ParseFS(templateFS, "templates/_base.txt", "templates/"+name+".txt")
		if err != nil {
			parseErr = fmt.Errorf("parse %s.txt: %w", name, err)
			return
		}
		ht, err := htmltmpl.New("_base.gohtml").Option("missingkey=error").
			ParseFS(templateFS, "templates/_base.gohtml", "templates/"+name+".gohtml")
		if err != nil {
			parseErr = fmt.Errorf("parse %s.gohtml: %w", name, err)
			return
		}
		textTmpls[name] = tt
		htmlTmpls[name] = ht
	}
}

// Render executes the message's template pair.
func (m *Message) Render(siteName, siteURL string) error {
	parseOnce.Do(parseTemplates)
	if parseErr != nil {
		return parseErr
	}
	tt, ok := textTmpls[m.Template]
	if !ok {
		return fmt.Errorf("unknown email template %q", m.Template)
	}
	ctx := templateContext{SiteName: siteName, SiteURL: siteURL, Year: time.Now().Year(), Data: m.Data}

	var buf bytes.Buffer
	if err := tt.Execute(&buf, ctx); err != nil {
		return fmt.Errorf("render %s.txt: %w", m.Template, err)
	}
	m.Text = buf.String()

	buf.Reset()
	if err := htmlTmpls[m.Template].Execute(&buf, ctx); err != nil {
		return fmt.Errorf("render %s.gohtml: %w", m.Template, err)
	}
	m.HTML = buf.String()
	return nil
}

func (m *Message) HasRecipients() bool { return len(m.To) > 0 }

func joinAddresses(addrs []mail.Address) string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return strings.Join(out, ", ")
}

// mimeBytes encodes m as a multipart/alternative RFC 5322 message.
func mimeBytes(from mail.Address, m *Message) ([]byte, error) {
	var body bytes.Buffer
	alt := multipart.NewWriter(&body)

	fmt.Fprintf(&body, "From: %s\r\n", from.String())
	fmt.Fprintf(&body, "To: %s\r\n", joinAddresses(m.To))
	if m.ReplyTo != nil {
		fmt.Fprintf(&body, "Reply-To: %s\r\n", m.ReplyTo.String())
	}
	fmt.Fprintf(&body, "Subject: %s\r\n", mimeHeader(m.Subject))
	fmt.Fprintf(&body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	body.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&body, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", alt.Boundary())

	w, err := alt.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(m.Text)); err != nil {
		return nil, err
	}
	w, err = alt.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(m.HTML)); err != nil {
		return nil, err
	}
	if err := alt.Close(); err != nil {
		return nil, err
	}
	return body.Bytes(), nil
}

func mimeHeader(s string) string {
	return mime.QEncoding.Encode("utf-8", s)
}
