package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/theunofficial-blog/core/internal/config"
)

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender sends emails via the Resend HTTP API or SMTP.
type Sender struct {
	cfg        config.MailConfig
	httpClient *http.Client
}

func New(cfg config.MailConfig) *Sender {
	return &Sender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send dispatches an email. Uses Resend if an API key is configured,
// otherwise SMTP.
func (s *Sender) Send(msg Message) error {
	if strings.TrimSpace(s.cfg.ResendKey) != "" {
		return s.sendResend(msg)
	}
	if strings.TrimSpace(s.cfg.SMTP.Host) != "" {
		return s.sendSMTP(msg)
	}
	return fmt.Errorf("mail transport not configured")
}

func (s *Sender) sendSMTP(msg Message) error {
	host := s.cfg.SMTP.Host
	port := s.cfg.SMTP.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	from := s.cfg.From
	if from == "" {
		from = s.cfg.SMTP.User
	}

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	auth := smtp.PlainAuth("", s.cfg.SMTP.User, s.cfg.SMTP.Pass, host)
	return smtp.SendMail(addr, auth, from, msg.To, body.Bytes())
}

func (s *Sender) sendResend(msg Message) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"from":    s.cfg.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	})

	req, err := http.NewRequest(http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}

const newArticleTpl = `<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,'Helvetica Neue',Arial,sans-serif;line-height:1.6;color:#333;margin:0">
  <div style="max-width:600px;margin:0 auto;padding:20px">
    <div style="background:linear-gradient(135deg,#667eea 0%,#764ba2 100%);color:#fff;padding:30px;text-align:center;border-radius:8px 8px 0 0">
      <h1 style="margin:0">New Article Published!</h1>
    </div>
    <div style="background:#f9f9f9;padding:30px;border-radius:0 0 8px 8px">
      <h2 style="margin-top:0">{{.Title}}</h2>
      <p>By {{.AuthorName}}</p>
      <p>A new article has been published on {{.SiteName}}. Check it out now!</p>
      <a href="{{.ArticleURL}}" style="display:inline-block;background:#09BC8A;color:#fff;padding:12px 30px;text-decoration:none;border-radius:6px;font-weight:600;margin-top:20px">Read Article</a>
    </div>
    <div style="text-align:center;margin-top:30px;color:#666;font-size:12px">
      <p>You're receiving this because you subscribed to notifications.</p>
      <p><a href="{{.SettingsURL}}">Manage your notification preferences</a></p>
    </div>
  </div>
</body>
</html>`

const contributorInquiryTpl = `<h2>New Contributor Inquiry</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Pitch:</strong><br/>{{.PitchHTML}}</p>`

// NewArticleData is the data for new-article notification emails.
type NewArticleData struct {
	Title       string
	AuthorName  string
	SiteName    string
	ArticleURL  string
	SettingsURL string
}

// ContributorInquiryData is the data for contributor inquiry relay emails.
type ContributorInquiryData struct {
	Name      string
	Email     string
	PitchHTML template.HTML
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewArticleHTML renders the new-article notification body.
func NewArticleHTML(data NewArticleData) (string, error) {
	return renderTemplate(newArticleTpl, data)
}

// SendNewArticle sends a new-article notification to one subscriber.
func (s *Sender) SendNewArticle(to string, data NewArticleData) error {
	html, err := NewArticleHTML(data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("New Article: %s", data.Title),
		HTML:    html,
	})
}

// SendContributorInquiry relays a contributor inquiry to the site owner.
func (s *Sender) SendContributorInquiry(to string, data ContributorInquiryData) error {
	html, err := renderTemplate(contributorInquiryTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("New UnOfficial Contributor Inquiry from %s", data.Name),
		HTML:    html,
	})
}
