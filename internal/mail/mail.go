// Copyright (c) 2026 HiSudoku. All rights reserved.

/*
Package mail defines the outbound email contract for HiSudoku.

Actual delivery (SMTP, SES, ...) is an external collaborator wired in at
startup; this package owns only the interface and a development sender that
writes messages to the structured log so magic links are usable locally.
*/
package mail

import (
	"context"
	"log/slog"
)

// Message is a plain-text email ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages to a mailbox.
type Sender interface {
	// Send delivers the message. Implementations must not block beyond the
	// context deadline; enqueue-and-return is acceptable.
	Send(ctx context.Context, message Message) error
}

// LogSender is a [Sender] that logs the message instead of delivering it.
//
// # Scope
//
// Development and tests only. The logged body contains live one-time tokens,
// which is exactly what makes it useful on a laptop and unacceptable anywhere
// shared.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-backed sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send writes the message to the log at INFO level.
func (sender *LogSender) Send(ctx context.Context, message Message) error {
	sender.logger.InfoContext(ctx, "mail_message_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}
