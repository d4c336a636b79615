package email

import (
	"context"
	"fmt"
	"html"
	"time"

	"careerlink/logs"
)

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #0B3D91; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F2937; line-height: 1.6; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #0B3D91; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>CAREERLINK</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">&copy; %d CareerLink. All rights reserved.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent, time.Now().Year())
}

// sendAsync hands the message to a goroutine; failures are only logged.
func sendAsync(m Mailer, to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := m.Send(ctx, to, subject, body); err != nil {
			logs.With("email").WithError(err).WithField("to", to).Warn("email delivery failed")
		}
	}()
}

// SendWelcomeEmail greets a newly registered user.
func SendWelcomeEmail(m Mailer, to, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome to <strong>CareerLink</strong>! Your account is ready.</p>
		<p>Browse jobs, join skill courses and collect badges as you grow.</p>
	`, html.EscapeString(name))

	sendAsync(m, to, "Welcome to CareerLink", getEmailTemplate("Welcome Onboard!", body))
}

// SendEnrollmentEmail confirms a course enrollment.
func SendEnrollmentEmail(m Mailer, to, name, courseTitle string, start *time.Time) {
	when := "to be announced"
	if start != nil {
		when = start.UTC().Format("Mon, 02 Jan 2006 15:04 MST")
	}
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are enrolled in <strong>%s</strong>.</p>
		<div class="info-box"><strong>Starts:</strong> %s</div>
		<p>We will remind you one hour before it begins.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle), when)

	sendAsync(m, to, "Enrollment Confirmed: "+courseTitle, getEmailTemplate("Enrollment Confirmed", body))
}
