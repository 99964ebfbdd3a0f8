// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	gomail "github.com/wneessen/go-mail"
)

// Settings configures the SMTP relay. An empty Server disables sending.
type Settings struct {
	Server   string
	Port     int
	UseTLS   bool
	Username string
	Password string
	From     string
}

type Message struct {
	Subject string
	To      []string
	Body    string
}

// Sender delivers messages. A Sender without a server silently drops everything.
type Sender struct {
	client *gomail.Client
	from   string
	log    *logrus.Logger
	wg     sync.WaitGroup
}

func NewSender(s Settings, log *logrus.Logger) (*Sender, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	sender := &Sender{from: s.From, log: log}
	if s.Server == "" {
		return sender, nil
	}
	if s.From == "" {
		return nil, errors.New("mail: sender address is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(s.Port),
		gomail.WithTimeout(10 * time.Second),
	}
	if s.UseTLS {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSOpportunistic))
	}
	if s.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.Username),
			gomail.WithPassword(s.Password),
		)
	}

	client, err := gomail.NewClient(s.Server, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "mail client")
	}
	sender.client = client
	return sender, nil
}

// Enabled reports whether a server is configured.
func (s *Sender) Enabled() bool { return s != nil && s.client != nil }

func (s *Sender) build(m Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, errors.Wrap(err, "from")
	}
	if err := msg.To(m.To...); err != nil {
		return nil, errors.Wrap(err, "to")
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Body)
	return msg, nil
}

// Send delivers m and waits for the relay.
func (s *Sender) Send(ctx context.Context, m Message) error {
	if !s.Enabled() {
		return nil
	}
	msg, err := s.build(m)
	if err != nil {
		return err
	}
	return s.client.DialAndSendWithContext(ctx, msg)
}

// SendAsync delivers m in the background. Failures are logged.
func (s *Sender) SendAsync(m Message) {
	if !s.Enabled() {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Send(ctx, m); err != nil {
			s.log.WithError(err).WithField("subject", m.Subject).Error("failed to send mail")
		}
	}()
}

// Wait blocks until every SendAsync call has finished.
func (s *Sender) Wait() {
	if s != nil {
		s.wg.Wait()
	}
}

// PasswordReset is the mail carrying a password reset token.
func PasswordReset(username, email, token string) Message {
	return Message{
		Subject: "[Chronicles] Reset Your Password",
		To:      []string{email},
		Body: fmt.Sprintf(`Dear %s,

To reset your password submit the following token:

%s

The token expires in ten minutes. If you have not requested a password reset simply ignore this message.

Sincerely,

The Chronicles Team
`, username, token),
	}
}
