package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// SessionDetails is the slice of session metadata the confirmation bodies
// render. Missing fields degrade to empty strings rather than failing the
// send.
type SessionDetails struct {
	Title         string
	Description   string
	Date          string
	Time          string
	Timezone      string
	Duration      string
	MentorName    string
	MentorRole    string
	MentorCompany string
	MeetingLink   string
	SessionURL    string
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<html>
  <body style="font-family: Arial, sans-serif; color: #333333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <div style="background-color: #000000; padding: 20px; text-align: center;">
        <span style="font-size: 24px; font-weight: bold; color: #ffffff;">MentorHood</span>
      </div>
      <div style="background-color: #ffffff; padding: 30px; border: 1px solid #e0e0e0;">
        <h2>{{.Heading}}</h2>
        <p>{{.Intro}}</p>
        <div style="background-color: #f5f5f5; border: 1px solid #e0e0e0; padding: 15px; border-radius: 4px;">
          <p><strong>Session:</strong> {{.Session.Title}}</p>
          {{if .Session.Date}}<p><strong>Date:</strong> {{.Session.Date}}</p>{{end}}
          {{if .Session.Time}}<p><strong>Time:</strong> {{.Session.Time}}{{if .Session.Timezone}} ({{.Session.Timezone}}){{end}}</p>{{end}}
          {{if .Session.Duration}}<p><strong>Duration:</strong> {{.Session.Duration}}</p>{{end}}
          {{if .Session.MentorName}}<p><strong>Host:</strong> {{.Session.MentorName}}{{if .Session.MentorRole}}, {{.Session.MentorRole}}{{end}}{{if .Session.MentorCompany}} at {{.Session.MentorCompany}}{{end}}</p>{{end}}
        </div>
        {{if .Session.MeetingLink}}
        <div style="background-color: #f0f8ff; border: 1px solid #cce6ff; padding: 15px; border-radius: 4px; word-break: break-all;">
          <p style="margin-top: 0;"><strong>Your Meeting Link:</strong></p>
          <a href="{{.Session.MeetingLink}}">{{.Session.MeetingLink}}</a>
          <p style="margin-bottom: 0; font-size: 14px;">This link will be active 5 minutes before your scheduled session.</p>
        </div>
        {{end}}
        <p>We'll send you a reminder before the session starts. In the meantime, feel free to prepare your questions!</p>
        {{if .Session.SessionURL}}<p><a href="{{.Session.SessionURL}}">View Session Details</a></p>{{end}}
        <p>If you have any questions, reach out to <a href="mailto:support@mentorhood.com">support@mentorhood.com</a>.</p>
        <p>Best regards,<br>The MentorHood Team</p>
      </div>
    </div>
  </body>
</html>
`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<html>
  <body style="font-family: Arial, sans-serif; color: #333333;">
    <h2>{{.Greeting}}</h2>
    <p>{{.Body}}</p>
    <p>Best regards,<br>The MentorHood Team</p>
  </body>
</html>
`))

type confirmationData struct {
	Heading string
	Intro   string
	Session SessionDetails
}

// RegistrationConfirmation renders the AMA session confirmation email.
func RegistrationConfirmation(s SessionDetails) (subject, body string, err error) {
	subject = fmt.Sprintf("Registration Confirmation - %s", s.Title)
	body, err = render(confirmationTmpl, confirmationData{
		Heading: fmt.Sprintf("You're registered for %s!", s.Title),
		Intro:   "Thank you for registering for our upcoming AMA session. We're excited to have you join us!",
		Session: s,
	})
	return subject, body, err
}

// BookingConfirmation renders the 1:1 booking confirmation email.
func BookingConfirmation(s SessionDetails) (subject, body string, err error) {
	title := s.Title
	if title == "" {
		title = "Mentorship Session"
		s.Title = title
	}
	subject = fmt.Sprintf("Booking Confirmation - %s", title)
	body, err = render(confirmationTmpl, confirmationData{
		Heading: "Your Booking is Confirmed!",
		Intro:   "Thank you for booking a session with MentorHood. We're excited to have you join us!",
		Session: s,
	})
	return subject, body, err
}

// Welcome renders the post-registration greeting in the requested locale.
func Welcome(username, locale string) (subject, body string, err error) {
	greeting := fmt.Sprintf("Welcome to MentorHood, %s!", username)
	text := "Thank you for joining our community. We're excited to have you on board!"
	subject = "Welcome to MentorHood!"
	if locale == "es" {
		greeting = fmt.Sprintf("¡Bienvenido a MentorHood, %s!", username)
		text = "Gracias por unirte a nuestra comunidad. ¡Estamos encantados de tenerte a bordo!"
		subject = "¡Bienvenido a MentorHood!"
	}
	body, err = render(welcomeTmpl, map[string]string{"Greeting": greeting, "Body": text})
	return subject, body, err
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mail: render template: %w", err)
	}
	return buf.String(), nil
}
