package notify

import (
	"fmt"
	"strings"

	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/sse"
)

// Links builds the frontend URLs embedded in notifications.
type Links struct {
	BaseURL string
}

func (l Links) url(path string) string {
	if l.BaseURL == "" {
		return ""
	}
	return strings.TrimRight(l.BaseURL, "/") + path
}

func recipient(p *models.Profile) Recipient {
	return Recipient{ProfileID: p.ID, Email: p.Email, Name: p.FullName}
}

func (l Links) InvitationCreated(inv *models.Invitation, project *models.Project, inviter, invitee *models.Profile) Event {
	return Event{
		Type:       sse.EventInvitationCreated,
		Recipients: []Recipient{recipient(invitee)},
		Subject:    fmt.Sprintf("You've been invited to join %s", project.Title),
		Body:       fmt.Sprintf("%s invited you to join %s on Tapri.", inviter.FullName, project.Title),
		Link:       l.url("/invitations"),
		Data:       inv,
	}
}

func (l Links) ProjectReviewed(project *models.Project, creator *models.Profile) Event {
	subject := fmt.Sprintf("%s is now live", project.Title)
	body := "Your project was approved and is visible to everyone."
	if project.Status == models.StatusRejected {
		subject = fmt.Sprintf("%s was not approved", project.Title)
		body = "Your project was not approved."
		if project.RejectionReason != nil && *project.RejectionReason != "" {
			body += " Reason: " + *project.RejectionReason
		}
	}
	return Event{
		Type:       sse.EventProjectReviewed,
		Recipients: []Recipient{recipient(creator)},
		Subject:    subject,
		Body:       body,
		Link:       l.url("/projects/" + project.Slug),
		Data:       project,
	}
}

func (l Links) ApplicationDecided(app *models.Application, project *models.Project, applicant *models.Profile) Event {
	return Event{
		Type:       sse.EventApplicationDecided,
		Recipients: []Recipient{recipient(applicant)},
		Subject:    fmt.Sprintf("Your application to %s was %s", project.Title, app.Status),
		Body:       fmt.Sprintf("The team behind %s has %s your application.", project.Title, app.Status),
		Link:       l.url("/applications"),
		Data:       app,
	}
}

// MessageEvent only travels over the realtime channel; it has no subject, so
// the email notifier skips it.
func MessageEvent(eventType string, msg *models.Message, recipients []Recipient) Event {
	return Event{Type: eventType, Recipients: recipients, Data: msg}
}
