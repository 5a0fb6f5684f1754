// Package notify fans one alert message out to every configured channel.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Channel is one outbound notification target. Implementations apply their
// own message transform; the message passed in is never modified.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg string) error
}

// Result is the outcome of one channel send. A nil Err means the message was sent.
type Result struct {
	Channel string
	Err     error
}

func (r Result) Sent() bool { return r.Err == nil }

type Dispatcher struct {
	channels []Channel
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger, channels ...Channel) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{channels: channels, logger: logger}
}

// Channels returns the names of the registered channels in send order.
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Dispatch sends msg to every channel in order. A failing channel is logged
// and recorded; it never stops the remaining channels.
func (d *Dispatcher) Dispatch(ctx context.Context, msg string) []Result {
	if len(d.channels) == 0 {
		d.logger.Warn("no notification channel configured (telegram, discord, slack, email)")
		return nil
	}

	results := make([]Result, 0, len(d.channels))
	for _, ch := range d.channels {
		d.logger.Info("sending notification", zap.String("channel", ch.Name()))
		err := safeSend(ctx, ch, msg)
		if err != nil {
			d.logger.Error("notification failed", zap.String("channel", ch.Name()), zap.Error(err))
		} else {
			d.logger.Info("notification sent", zap.String("channel", ch.Name()))
		}
		results = append(results, Result{Channel: ch.Name(), Err: err})
	}
	return results
}

func safeSend(ctx context.Context, ch Channel, msg string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic during send: %v", ch.Name(), r)
		}
	}()
	return ch.Send(ctx, msg)
}
