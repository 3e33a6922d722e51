// Package smtp provides the mail transport used by the expiry notifier.
package smtp

import "io"

// Client is the subset of an SMTP session the notifier needs.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface abstracts the transport for testing.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
