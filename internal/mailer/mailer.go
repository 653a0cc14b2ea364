package mailer

import "context"

// Sender delivers transactional mail. Failures are reported but never
// abort the mutation they are attached to.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}
