package mail

import (
	"context"
	"io"
)

// Message is a single outgoing email. When both bodies are set the message is
// sent as multipart/alternative.
type Message struct {
	From     string // empty means the transport default sender
	To       []string
	Cc       []string
	Bcc      []string // envelope only, never written to headers
	Subject  string
	TextBody string
	HTMLBody string
}

// recipients lists every envelope address in To, Cc, Bcc order.
func (m Message) recipients() []string {
	all := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	all = append(all, m.To...)
	all = append(all, m.Cc...)
	return append(all, m.Bcc...)
}

// Mail delivers messages. Implementations must respect ctx cancellation.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
