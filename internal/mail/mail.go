// Package mail delivers the account emails that carry one-time codes.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
)

// Recipient is the user a code is sent to.
type Recipient struct {
	Email string
	Name  string
	Token string
}

// Mailer sends account emails.
type Mailer interface {
	SendConfirmation(ctx context.Context, r Recipient) error
	SendPasswordReset(ctx context.Context, r Recipient) error
}

// Message is a rendered email ready to hand to a transport.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

var bodyTemplate = template.Must(template.New("body").Parse(
	`<p>Hi {{.Name}}, {{.Intro}}</p>
<p>Visit the following link:</p>
<a href="{{.Link}}">{{.Action}}</a>
<p>And enter the code: <b>{{.Token}}</b></p>
<p>This code expires in {{.Expiry}}</p>
`))

type bodyData struct {
	Name   string
	Intro  string
	Link   string
	Action string
	Token  string
	Expiry string
}

// composer renders the two account emails.
type composer struct {
	frontendURL string
	codeTTL     time.Duration
}

func (c composer) confirmation(r Recipient) (Message, error) {
	return c.render(r, "Nexus Pro - Confirm your account", bodyData{
		Intro:  "you have created your Nexus Pro account, you just need to confirm it.",
		Link:   c.frontendURL + "/auth/confirm-account",
		Action: "Confirm account",
	})
}

func (c composer) passwordReset(r Recipient) (Message, error) {
	return c.render(r, "Nexus Pro - Reset your password", bodyData{
		Intro:  "you have requested to reset your password.",
		Link:   c.frontendURL + "/auth/new-password",
		Action: "Reset password",
	})
}

func (c composer) render(r Recipient, subject string, data bodyData) (Message, error) {
	data.Name = r.Name
	data.Token = r.Token
	data.Expiry = humanizeTTL(c.codeTTL)

	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render %q: %w", subject, err)
	}
	return Message{
		To:      r.Email,
		Subject: subject,
		Text:    fmt.Sprintf("%s. Code: %s", subject, r.Token),
		HTML:    buf.String(),
	}, nil
}

func humanizeTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
