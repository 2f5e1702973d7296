package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"hogis-feedback-backend/internal/models"
)

const emailStyles = `
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; box-sizing: border-box; }
    .header { background-color: #000; padding: 20px; text-align: center; }
    .content { background-color: #fff; padding: 30px; border-radius: 5px; box-shadow: 0 2px 5px rgba(0,0,0,0.1); }
    h1, h2 { color: #000; margin-bottom: 20px; }
    .feedback-summary { background-color: #f9f9f9; padding: 20px; border-radius: 5px; margin: 20px 0; }
    .stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr)); gap: 15px; margin: 20px 0; }
    .stat-box { background: #fff; padding: 15px; border-radius: 5px; text-align: center; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
    .stat-number { font-size: 24px; font-weight: bold; color: #000; }
    .stat-label { font-size: 14px; color: #666; }
    .footer { text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; color: #666; }
  </style>
`

// feedbackNotificationHTML renders the branch/admin notification. Every
// user-supplied field passes through html.EscapeString so free text cannot
// inject markup into the message.
func feedbackNotificationHTML(rec *models.Feedback) string {
	var b strings.Builder
	b.WriteString(emailStyles)
	b.WriteString(`<div class="container"><div class="content">`)
	b.WriteString("<h2>New Feedback Received</h2>")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(rec.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(rec.Email))
	if rec.Phone != "" {
		fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", html.EscapeString(rec.Phone))
	}
	fmt.Fprintf(&b, "<p><strong>Venue:</strong> %s</p>", html.EscapeString(rec.Venue))
	fmt.Fprintf(&b, "<p><strong>Reaction:</strong> %s</p>", html.EscapeString(string(rec.Reaction)))
	fmt.Fprintf(&b, "<p><strong>Feedback:</strong> %s</p>", html.EscapeString(rec.Body))
	if rec.PhotoURL != "" {
		fmt.Fprintf(&b, `<p><strong>Photo:</strong> <a href="%s">View attached photo</a></p>`, html.EscapeString(rec.PhotoURL))
	}
	if rec.AudioURL != "" {
		fmt.Fprintf(&b, `<p><strong>Voice note:</strong> <a href="%s">Listen to recording</a></p>`, html.EscapeString(rec.AudioURL))
	}
	fmt.Fprintf(&b, "<p><strong>Submitted:</strong> %s</p>", rec.CreatedAt.Format(time.RFC1123))
	b.WriteString(`</div></div>`)
	return b.String()
}

// acknowledgmentHTML renders the thank-you email sent to the submitter.
func acknowledgmentHTML(rec *models.Feedback) string {
	var b strings.Builder
	b.WriteString(emailStyles)
	b.WriteString(`<div class="container"><div class="content">`)
	fmt.Fprintf(&b, "<h2>Thank you, %s!</h2>", html.EscapeString(rec.Name))
	fmt.Fprintf(&b, "<p>We received your feedback for %s. Your feedback is valuable to us and our team will review it right away.</p>", html.EscapeString(rec.Venue))
	b.WriteString(`<div class="footer"><p>Hogis Group</p></div>`)
	b.WriteString(`</div></div>`)
	return b.String()
}

// DigestData is the rendered content of one venue's monthly digest.
type DigestData struct {
	Period   string // e.g. "July 2026"
	Total    int
	Positive int
	Neutral  int
	Negative int
	Photos   int
	Audio    int
}

func percent(part, total int) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(part)/float64(total)*100)
}

func digestHTML(venue, address string, d DigestData) string {
	var b strings.Builder
	b.WriteString(emailStyles)
	b.WriteString(`<div class="container"><div class="content">`)
	fmt.Fprintf(&b, "<h1>Monthly Feedback Digest - %s</h1>", html.EscapeString(venue))
	fmt.Fprintf(&b, "<p>Here's your feedback summary for %s:</p>", d.Period)

	b.WriteString(`<div class="stats-grid">`)
	fmt.Fprintf(&b, `<div class="stat-box"><div class="stat-number">%d</div><div class="stat-label">Total Feedback</div></div>`, d.Total)
	fmt.Fprintf(&b, `<div class="stat-box"><div class="stat-number">%s%%</div><div class="stat-label">Positive</div></div>`, percent(d.Positive, d.Total))
	fmt.Fprintf(&b, `<div class="stat-box"><div class="stat-number">%s%%</div><div class="stat-label">Neutral</div></div>`, percent(d.Neutral, d.Total))
	fmt.Fprintf(&b, `<div class="stat-box"><div class="stat-number">%s%%</div><div class="stat-label">Negative</div></div>`, percent(d.Negative, d.Total))
	b.WriteString(`</div>`)

	b.WriteString(`<div class="feedback-summary"><h2>Feedback Breakdown</h2>`)
	fmt.Fprintf(&b, "<p><strong>Positive Feedback:</strong> %d responses</p>", d.Positive)
	fmt.Fprintf(&b, "<p><strong>Neutral Feedback:</strong> %d responses</p>", d.Neutral)
	fmt.Fprintf(&b, "<p><strong>Negative Feedback:</strong> %d responses</p>", d.Negative)
	b.WriteString("<p><strong>Media Attachments:</strong></p><ul>")
	fmt.Fprintf(&b, "<li>Photos: %d submissions</li>", d.Photos)
	fmt.Fprintf(&b, "<li>Audio Messages: %d recordings</li>", d.Audio)
	b.WriteString("</ul></div>")

	b.WriteString("<p>Thank you for your continued commitment to improving our guest experience. This data helps us identify areas of excellence and opportunities for enhancement.</p>")
	b.WriteString(`</div><div class="footer">`)
	fmt.Fprintf(&b, "<p>© %d Hogis Group. All rights reserved.</p>", time.Now().Year())
	if address != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(address))
	}
	b.WriteString(`</div></div>`)
	return b.String()
}
