package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"
)

// PGListener turns NOTIFY messages on a channel into change notifications.
// A dropped connection is re-established with capped exponential backoff;
// the backoff starts over after every connection that reached LISTEN.
type PGListener struct {
	dsn     string
	channel string
	logger  *slog.Logger

	newBackoff func() retry.Backoff
	session    func(ctx context.Context, onReady, onChange func()) (listening bool, err error)
}

// NewPGListener creates a listener for channel. If logger is nil, a discard logger is used.
func NewPGListener(dsn, channel string, logger *slog.Logger) *PGListener {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &PGListener{
		dsn:     dsn,
		channel: channel,
		logger:  logger,
		newBackoff: func() retry.Backoff {
			return retry.WithCappedDuration(30*time.Second, retry.NewExponential(500*time.Millisecond))
		},
	}
	l.session = l.listenOnce
	return l
}

// Listen blocks until ctx is cancelled, or until the backoff gives up, in
// which case the last connection error is returned.
func (l *PGListener) Listen(ctx context.Context, onReady, onChange func()) error {
	backoff := l.newBackoff()
	for {
		listening, err := l.session(ctx, onReady, onChange)
		if ctx.Err() != nil {
			return nil
		}
		if listening {
			backoff = l.newBackoff()
		}

		delay, stop := backoff.Next()
		if stop {
			return err
		}
		l.logger.WarnContext(ctx, "change feed disconnected, reconnecting",
			"channel", l.channel, "error", err, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// listenOnce runs one connection. listening reports whether LISTEN succeeded.
func (l *PGListener) listenOnce(ctx context.Context, onReady, onChange func()) (listening bool, err error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return false, fmt.Errorf("failed to connect change feed: %w", err)
	}
	defer func() { _ = conn.Close(context.Background()) }()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return false, fmt.Errorf("failed to listen on %s: %w", l.channel, err)
	}
	l.logger.DebugContext(ctx, "listening for run changes", "channel", l.channel)
	onReady()

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return true, fmt.Errorf("wait for notification: %w", err)
		}
		l.logger.DebugContext(ctx, "run changed", "channel", n.Channel, "op", n.Payload)
		onChange()
	}
}
