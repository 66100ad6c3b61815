package mailer

import "context"

// Mailer is the injected mail-send capability: deliver one email, success
// or failure. The dispatcher treats any returned error uniformly as a
// failed attempt for that recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
