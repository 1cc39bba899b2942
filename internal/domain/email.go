package domain

import "context"

// Address is a display name paired with an email address.
type Address struct {
	Name  string
	Email string
}

// Attachment references a file to attach, with the filename shown to the
// recipient.
type Attachment struct {
	Filename string
	Path     string
}

// Message is one outbound email. Attachments is nil when nothing is attached.
type Message struct {
	From        Address
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer is the outbound transport port (infrastructure).
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
	// Verify checks connectivity to the underlying transport without sending.
	Verify(ctx context.Context) error
}

// TransportResolver picks the mail transport and from-address for a sender.
// Resolution never fails: any lookup problem degrades to the system default
// transport.
type TransportResolver interface {
	Resolve(ctx context.Context, user *User) (Mailer, Address)
}
