package mail

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/config"
	"github.com/Xenn-00/warteschlangen-meister/internal/entity"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type Mailer interface {
	SendAssignmentReminder(assignment *entity.AssignmentEntity, assigneeEmail string) error
}

type MailService struct {
	DomainSender string
	MailtrapUrl  string
	MailAPI      string
}

func NewMailer(cfg *config.AppConfig) Mailer {
	if cfg.APP.State == "prod" {
		return &MailService{
			DomainSender: cfg.MAILTRAP.API.MailtrapDomain,
			MailtrapUrl:  cfg.MAILTRAP.API.MailtrapURL,
			MailAPI:      cfg.MAILTRAP.API.MailtrapTokenAPI,
		}
	}
	return &MailService{
		DomainSender: cfg.MAILTRAP.Sandbox.SandboxDomain,
		MailtrapUrl:  cfg.MAILTRAP.Sandbox.SandboxURL,
		MailAPI:      cfg.MAILTRAP.Sandbox.SandboxAPI,
	}
}

func (m *MailService) SendAssignmentReminder(assignment *entity.AssignmentEntity, assigneeEmail string) error {
	log.Info().Str("assignment_id", assignment.ID).Msg("Mailer: Send assignment reminder hit.")
	url := m.MailtrapUrl

	payload := map[string]any{
		"from": map[string]string{
			"email": m.DomainSender,
			"name":  "Warteschlangen Meister - Erinnerung an wartende Arbeit",
		},
		"to": []map[string]string{
			{
				"email": assigneeEmail,
			},
		},
		"subject": fmt.Sprintf("Reminder: %s %s is still waiting on you", assignment.WorkItemType, assignment.WorkItemID),
		"text": fmt.Sprintf(`
		Hi,

		A work item assigned to you is still waiting for action.

		Work item: %s (%s)
		Priority : %s
		Status   : %s
		Assigned : %s

		Please pick the item up, or hand it back if you cannot continue,
		so the queue does not stall on it.

		— Warteschlangen Meister
		`, assignment.WorkItemID, assignment.WorkItemType, assignment.Priority, assignment.Status, assignment.AssignedAt.Format("02 Jan 2006 15:04 MST")),
		"category": "Assignment Reminder",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Error when marshalling payload body.")
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		log.Error().Err(err).Msg("Error when send the request.")
		return err
	}

	req.Header.Set("Authorization", "Bearer "+m.MailAPI)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Error when get response from server.")
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailtrap send failed: status=%d body=%s",
			resp.StatusCode,
			string(respBody))
	}

	return nil
}
