package services

import (
	"fmt"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"evalyn/hr-agent/internal/models"
)

// EmailService sends candidate-facing notifications. Every send reports
// success as a bool: transport failures are logged, never propagated, and
// the caller decides what a failed send means for the batch.
type EmailService interface {
	SendShortlistNotification(app *models.Application, job *models.Job) bool
	SendInterviewInvitation(app *models.Application, interview *models.Interview, job *models.Job) bool
	SendRejection(app *models.Application, job *models.Job) bool
	SendBulkShortlistNotifications(apps []models.Application, job *models.Job) BulkEmailResult
	Configured() bool
}

type BulkEmailResult struct {
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Emails  []EmailStatus `json:"emails"`
}

type EmailStatus struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

type smtpEmailService struct {
	host        string
	port        int
	user        string
	password    string
	from        string
	companyName string
	careersURL  string

	// send is swapped out by tests; defaults to a real SMTP dial.
	send func(to, subject, htmlBody string) error
}

func NewEmailService(host string, port int, user, password, from, companyName, careersURL string) EmailService {
	s := &smtpEmailService{
		host:        host,
		port:        port,
		user:        user,
		password:    password,
		from:        from,
		companyName: companyName,
		careersURL:  careersURL,
	}
	s.send = s.smtpSend
	return s
}

func (s *smtpEmailService) Configured() bool {
	return s.user != "" && s.password != ""
}

func (s *smtpEmailService) smtpSend(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.companyName+" HR")
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.host, s.port, s.user, s.password)
	return d.DialAndSend(m)
}

func (s *smtpEmailService) deliver(to, subject, htmlBody string) bool {
	if err := s.send(to, subject, htmlBody); err != nil {
		log.Printf("❌ Email sending failed for %s: %v", to, err)
		return false
	}
	return true
}

// SendShortlistNotification implements EmailService.
func (s *smtpEmailService) SendShortlistNotification(app *models.Application, job *models.Job) bool {
	subject := fmt.Sprintf("Congratulations! You've been shortlisted for %s at %s", job.Title, s.companyName)

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #4A90A4; color: white; padding: 20px; text-align: center;"><h1>🎉 Congratulations!</h1></div>
  <div style="padding: 20px; background: #f9f9f9;">
    <p>Dear <strong>%s</strong>,</p>
    <p>We are pleased to inform you that you have successfully passed the
    <strong>first round of screening</strong> for the position of
    <strong>%s</strong> at %s.</p>
    <div style="background: #e8f5e9; padding: 15px; border-radius: 5px;">
      <h3>✅ Round 1: Passed</h3>
      <p>Your qualifications and experience have impressed our team!</p>
    </div>
    <h3>Next Steps: Round 2 Interview</h3>
    <p>You have been selected to proceed to the second round, a technical
    interview with our Senior Software Engineer. You will receive a separate
    email shortly with the interview schedule and meeting details.</p>
    <p>Best regards,<br><strong>HR Team</strong><br>%s</p>
  </div>
  <div style="text-align: center; padding: 20px; font-size: 12px; color: #666;">
    <p>This is an automated message from %s Recruitment System.</p>
  </div>
</div></body></html>`,
		app.FullName, job.Title, s.companyName, s.companyName, s.companyName)

	return s.deliver(app.Email, subject, body)
}

// SendInterviewInvitation implements EmailService.
func (s *smtpEmailService) SendInterviewInvitation(app *models.Application, interview *models.Interview, job *models.Job) bool {
	scheduled := interview.ScheduledAt.Format("Monday, January 2, 2006 at 3:04 PM")
	subject := fmt.Sprintf("Interview Scheduled: %s - Round 2 at %s", job.Title, s.companyName)

	locationRow := ""
	if interview.Location != "" {
		locationRow = fmt.Sprintf("<p><strong>Location:</strong> %s</p>", interview.Location)
	}
	linkRow := ""
	if interview.MeetingLink != "" {
		linkRow = fmt.Sprintf(`<p><strong>Meeting Link:</strong> <a href="%s">%s</a></p>`,
			interview.MeetingLink, interview.MeetingLink)
	}

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #2196F3; color: white; padding: 20px; text-align: center;"><h1>📅 Interview Scheduled</h1></div>
  <div style="padding: 20px; background: #f9f9f9;">
    <p>Dear <strong>%s</strong>,</p>
    <p>Your Round 2 interview for <strong>%s</strong> has been scheduled.</p>
    <div style="background: #fff; border: 2px solid #2196F3; padding: 20px; border-radius: 8px;">
      <h3>📋 Interview Details</h3>
      <p><strong>Position:</strong> %s</p>
      <p><strong>Date &amp; Time:</strong> %s</p>
      <p><strong>Duration:</strong> %d minutes</p>
      <p><strong>Interviewer:</strong> %s</p>
      %s%s
    </div>
    <p>Join the meeting 5 minutes early, have a copy of your CV ready, and
    prepare examples of your past work. If you need to reschedule, please
    reply to this email at least 24 hours before the scheduled time.</p>
    <p>Best of luck!</p>
    <p>Best regards,<br><strong>HR Team</strong><br>%s</p>
  </div>
  <div style="text-align: center; padding: 20px; font-size: 12px; color: #666;">
    <p>This is an automated message from %s Recruitment System.</p>
  </div>
</div></body></html>`,
		app.FullName, job.Title, job.Title, scheduled, interview.DurationMinutes,
		interview.InterviewerName, locationRow, linkRow, s.companyName, s.companyName)

	return s.deliver(app.Email, subject, body)
}

// SendRejection implements EmailService.
func (s *smtpEmailService) SendRejection(app *models.Application, job *models.Job) bool {
	subject := fmt.Sprintf("Application Update: %s at %s", job.Title, s.companyName)

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #607D8B; color: white; padding: 20px; text-align: center;"><h1>Application Update</h1></div>
  <div style="padding: 20px; background: #f9f9f9;">
    <p>Dear <strong>%s</strong>,</p>
    <p>Thank you for your interest in the <strong>%s</strong> position at %s
    and for taking the time to apply.</p>
    <p>After careful review of all applications, we regret to inform you that
    we have decided to move forward with other candidates whose qualifications
    more closely match our current needs.</p>
    <p>We truly appreciate your interest in joining our team and encourage you
    to keep an eye on our <a href="%s">careers page</a> for future openings
    that match your skills and experience.</p>
    <p>Best regards,<br><strong>HR Team</strong><br>%s</p>
  </div>
</div></body></html>`,
		app.FullName, job.Title, s.companyName, s.careersURL, s.companyName)

	return s.deliver(app.Email, subject, body)
}

// SendBulkShortlistNotifications implements EmailService.
func (s *smtpEmailService) SendBulkShortlistNotifications(apps []models.Application, job *models.Job) BulkEmailResult {
	result := BulkEmailResult{Emails: make([]EmailStatus, 0, len(apps))}

	start := time.Now()
	for i := range apps {
		if s.SendShortlistNotification(&apps[i], job) {
			result.Success++
			result.Emails = append(result.Emails, EmailStatus{Email: apps[i].Email, Status: "sent"})
		} else {
			result.Failed++
			result.Emails = append(result.Emails, EmailStatus{Email: apps[i].Email, Status: "failed"})
		}
	}

	log.Printf("📧 Bulk shortlist notifications: %d sent, %d failed in %s",
		result.Success, result.Failed, time.Since(start).Round(time.Millisecond))

	return result
}
