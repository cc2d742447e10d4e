package alerts

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gopkg.in/gomail.v2"
)

const (
	sendRetries = 3
	fromName    = "Football Betting Bot"
)

// sender is the transport seam; satisfied by gomail.Dialer.
type sender interface {
	DialAndSend(...*gomail.Message) error
}

// Notifier e-mails staking decisions to the configured recipients. Sends
// are fire-and-forget: a failed send is logged and never affects the
// staking decision already recorded. A nil Notifier is allowed and drops
// everything, so the bot runs without mail credentials.
type Notifier struct {
	dialer     sender
	from       string
	recipients []string

	mu         sync.Mutex
	lastAlerts map[string]time.Time // dedupe per fixture key
	cooldown   time.Duration
}

// NewNotifier creates a mail notifier. host/port/username/password are the
// SMTP endpoint; username is also the sender address.
func NewNotifier(host string, port int, username, password string, recipients []string, cooldown time.Duration) *Notifier {
	return &Notifier{
		dialer:     gomail.NewDialer(host, port, username, password),
		from:       username,
		recipients: recipients,
		lastAlerts: make(map[string]time.Time),
		cooldown:   cooldown,
	}
}

// BetPlaced mails the human-readable description of a placed bet. key
// identifies the fixture so repeated alerts inside the cooldown window
// are dropped.
func (n *Notifier) BetPlaced(key, subject, body string) {
	if n == nil {
		return
	}

	n.mu.Lock()
	if last, ok := n.lastAlerts[key]; ok && time.Since(last) < n.cooldown {
		n.mu.Unlock()
		return
	}
	n.lastAlerts[key] = time.Now()
	n.mu.Unlock()

	n.send(subject, body)
}

func (n *Notifier) send(subject, body string) {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", n.from, fromName)
	msg.SetHeader("To", n.recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	var lastErr error
	for attempt := 1; attempt <= sendRetries; attempt++ {
		if err := n.dialer.DialAndSend(msg); err != nil {
			lastErr = err
			time.Sleep(time.Duration(1<<attempt) * time.Second)
			continue
		}
		return
	}

	slog.Error("Mail send failed", "subject", subject, "attempts", sendRetries, "err", lastErr)
}

// CleanupOldAlerts drops dedupe records older than an hour.
func (n *Notifier) CleanupOldAlerts() {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	cutoff := time.Now().Add(-1 * time.Hour)
	for key, t := range n.lastAlerts {
		if t.Before(cutoff) {
			delete(n.lastAlerts, key)
		}
	}
}

// BetSubject builds the mail subject line for a placed bet.
func BetSubject(side, teamName string) string {
	return fmt.Sprintf("Bet placed: %s %s", side, teamName)
}
