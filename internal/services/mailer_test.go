package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"evalyn/hr-agent/internal/models"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

func newCapturingMailer(failFor map[string]error) (*smtpEmailService, *[]sentMail) {
	var sent []sentMail
	s := &smtpEmailService{
		from:        "hr@evalyn.example",
		companyName: "Evalyn",
		careersURL:  "https://evalyn.example/careers",
	}
	s.send = func(to, subject, htmlBody string) error {
		if err := failFor[to]; err != nil {
			return err
		}
		sent = append(sent, sentMail{to: to, subject: subject, body: htmlBody})
		return nil
	}
	return s, &sent
}

func TestConfigured(t *testing.T) {
	unconfigured := NewEmailService("smtp.example.com", 587, "", "", "hr@example.com", "Evalyn", "")
	if unconfigured.Configured() {
		t.Error("Configured() = true without credentials")
	}

	configured := NewEmailService("smtp.example.com", 587, "user", "pass", "hr@example.com", "Evalyn", "")
	if !configured.Configured() {
		t.Error("Configured() = false with credentials")
	}
}

func TestSendShortlistNotification(t *testing.T) {
	mailer, sent := newCapturingMailer(nil)

	app := testApplication(uuid.New(), "Jane Doe", "jane@example.com", time.Now())
	job := testJob()

	if ok := mailer.SendShortlistNotification(app, job); !ok {
		t.Fatal("SendShortlistNotification() = false")
	}

	msg := (*sent)[0]
	if msg.to != "jane@example.com" {
		t.Errorf("to = %q", msg.to)
	}
	if !strings.Contains(msg.subject, job.Title) {
		t.Errorf("subject %q does not mention the job title", msg.subject)
	}
	for _, want := range []string{"Jane Doe", job.Title, "Round 2"} {
		if !strings.Contains(msg.body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestSendInterviewInvitation(t *testing.T) {
	app := testApplication(uuid.New(), "Jane Doe", "jane@example.com", time.Now())
	job := testJob()

	tests := []struct {
		name       string
		interview  models.Interview
		wantInBody []string
		notInBody  []string
	}{
		{
			name: "remote with link",
			interview: models.Interview{
				InterviewerName: "Sam Lee",
				ScheduledAt:     time.Date(2026, 3, 4, 14, 30, 0, 0, time.UTC),
				DurationMinutes: 60,
				MeetingLink:     "https://meet.example.com/abc",
			},
			wantInBody: []string{"Sam Lee", "Wednesday, March 4, 2026 at 2:30 PM", "60 minutes", "https://meet.example.com/abc"},
			notInBody:  []string{"Location:"},
		},
		{
			name: "onsite without link",
			interview: models.Interview{
				InterviewerName: "Sam Lee",
				ScheduledAt:     time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC),
				DurationMinutes: 45,
				Location:        "HQ, Meeting Room 2",
			},
			wantInBody: []string{"HQ, Meeting Room 2", "45 minutes"},
			notInBody:  []string{"Meeting Link:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer, sent := newCapturingMailer(nil)

			if ok := mailer.SendInterviewInvitation(app, &tt.interview, job); !ok {
				t.Fatal("SendInterviewInvitation() = false")
			}

			body := (*sent)[0].body
			for _, want := range tt.wantInBody {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
			for _, absent := range tt.notInBody {
				if strings.Contains(body, absent) {
					t.Errorf("body unexpectedly contains %q", absent)
				}
			}
		})
	}
}

func TestSendRejection(t *testing.T) {
	mailer, sent := newCapturingMailer(nil)

	app := testApplication(uuid.New(), "Jane Doe", "jane@example.com", time.Now())
	job := testJob()

	if ok := mailer.SendRejection(app, job); !ok {
		t.Fatal("SendRejection() = false")
	}

	body := (*sent)[0].body
	if !strings.Contains(body, "move forward with other candidates") {
		t.Errorf("body = %q", body)
	}
	if !strings.Contains(body, "https://evalyn.example/careers") {
		t.Error("body missing careers page link")
	}
}

func TestSendBulkShortlistNotifications(t *testing.T) {
	jobID := uuid.New()
	apps := []models.Application{
		*testApplication(jobID, "A", "a@example.com", time.Now()),
		*testApplication(jobID, "B", "b@example.com", time.Now()),
		*testApplication(jobID, "C", "c@example.com", time.Now()),
	}

	mailer, _ := newCapturingMailer(map[string]error{
		"b@example.com": errors.New("mailbox unavailable"),
	})

	result := mailer.SendBulkShortlistNotifications(apps, testJob())

	if result.Success != 2 || result.Failed != 1 {
		t.Errorf("result = %d sent / %d failed, want 2/1", result.Success, result.Failed)
	}
	if len(result.Emails) != 3 {
		t.Fatalf("got %d statuses, want 3", len(result.Emails))
	}
	if result.Emails[1].Status != "failed" {
		t.Errorf("Emails[1].Status = %q, want failed", result.Emails[1].Status)
	}
}
