package notify

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bike-deal-monitor/utils"
)

const defaultEndpoint = "https://api.pushover.net/1/messages.json"

// Pushover delivers push notifications through the Pushover message API.
type Pushover struct {
	appToken string
	userKey  string
	endpoint string
	client   *http.Client
	logger   *utils.Logger
}

// NewPushover creates a Pushover notifier with the given credentials.
func NewPushover(appToken, userKey string, logger *utils.Logger) *Pushover {
	return &Pushover{
		appToken: appToken,
		userKey:  userKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

// Notify sends one message. Errors are returned so the caller can log and
// swallow them; a failed delivery is never retried here.
func (p *Pushover) Notify(title, message string) error {
	form := url.Values{
		"token":   {p.appToken},
		"user":    {p.userKey},
		"title":   {title},
		"message": {message},
	}

	resp, err := p.client.Post(p.endpoint, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("pushover: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pushover: status %d", resp.StatusCode)
	}

	p.logger.Debug("[notify] Notification sent: %s", title)
	return nil
}
