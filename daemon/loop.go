package daemon

import (
	"context"
	"fmt"
	"io"

	"github.com/jacobsa/reqtrace"
	"github.com/sirupsen/logrus"

	"github.com/terrorizer1980/hh-ide-daemon/errs"
	"github.com/terrorizer1980/hh-ide-daemon/internal/wire"
)

// inbound is one decoded request read off the transport: its tag and its
// already-typed body.
type inbound struct {
	tag  string
	body interface{}
}

// Loop is the Daemon Loop of spec.md §4.4/§5: a single logical task that
// reads framed requests from in, dispatches them against a Daemon, and
// writes framed responses/notifications to out. Fairness between
// requests and backlog turns is implemented with a reader goroutine
// feeding a channel and non-blocking selects against it, rather than
// polling the transport's readability directly — the idiomatic-Go
// equivalent of spec.md §4.4's "queue empty AND input pipe has no
// readable bytes" condition.
type Loop struct {
	Daemon *Daemon
	Deps   Deps
	Logger *logrus.Logger

	in  io.Reader
	out io.Writer
}

// NewLoop constructs a Loop reading framed requests from in and writing
// framed responses/notifications to out (spec.md §6: "a fd pair").
func NewLoop(d *Daemon, deps Deps, in io.Reader, out io.Writer) *Loop {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Loop{Daemon: d, Deps: deps, Logger: logger, in: in, out: out}
}

// Run drives the loop until Shutdown is accepted (spec.md §4.6), the
// transport fails (spec.md §7.6), or ctx is cancelled. A TransportFailure
// error terminates the loop per spec.md §7's propagation rule; every
// other error the loop encounters while dispatching a single message is
// already folded into that message's Response and does not stop the
// loop.
func (l *Loop) Run(ctx context.Context) error {
	reqCh := make(chan inbound)
	errCh := make(chan error, 1)
	go l.readLoop(reqCh, errCh)

	fw := wire.NewFrameWriter(l.out)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// (a) Drain one queued message if any is immediately ready.
		select {
		case msg, ok := <-reqCh:
			if !ok {
				return l.transportClosed(errCh)
			}
			if done, err := l.handleAndRespond(fw, msg); done || err != nil {
				return err
			}
			continue
		default:
		}

		// (b) No message ready: process one backlog path if there's
		// backlog work and the queue is still empty right now.
		if l.Daemon.hasBacklogWork() {
			select {
			case msg, ok := <-reqCh:
				if !ok {
					return l.transportClosed(errCh)
				}
				if done, err := l.handleAndRespond(fw, msg); done || err != nil {
					return err
				}
				continue
			default:
			}

			notif := l.Daemon.processOneBacklogPath(l.Logger)
			if notif != nil {
				if err := l.writeNotification(fw, *notif); err != nil {
					return errs.NewTransportFailure(err)
				}
			}
			continue
		}

		// (c) Nothing else to do: block on the next message.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-reqCh:
			if !ok {
				return l.transportClosed(errCh)
			}
			if done, err := l.handleAndRespond(fw, msg); done || err != nil {
				return err
			}
		case err := <-errCh:
			return err
		}
	}
}

func (l *Loop) transportClosed(errCh chan error) error {
	select {
	case err := <-errCh:
		return err
	default:
		return errs.NewTransportFailure(io.ErrClosedPipe)
	}
}

// handleAndRespond dispatches one message and writes its response or
// notification. done is true only once Shutdown has been accepted and
// the loop should exit (spec.md §4.4 table: "ok, then loop exits").
func (l *Loop) handleAndRespond(fw *wire.FrameWriter, msg inbound) (done bool, err error) {
	_, report := reqtrace.StartSpan(context.Background(), msg.tag)
	defer func() { report(err) }()

	result, notif, handlerErr := l.Daemon.Dispatch(msg.tag, msg.body, l.Deps)

	if notif != nil {
		if writeErr := l.writeNotification(fw, *notif); writeErr != nil {
			return false, errs.NewTransportFailure(writeErr)
		}
		return false, nil
	}

	resp := Response{UnblockedTime: l.now()}
	if handlerErr != nil {
		resp.Err = toErrorInfo(handlerErr)
	} else {
		resp.Result = result
	}

	if writeErr := l.writeResponse(fw, resp); writeErr != nil {
		return false, errs.NewTransportFailure(writeErr)
	}

	if msg.tag == TagShutdown && handlerErr == nil {
		return true, nil
	}
	return false, nil
}

func (l *Loop) now() int64 {
	if l.Daemon.clock == nil {
		return 0
	}
	return l.Daemon.clock.Now().UnixNano()
}

func (l *Loop) writeResponse(fw *wire.FrameWriter, resp Response) error {
	payload, err := wire.EncodeEnvelope("Response", resp)
	if err != nil {
		return err
	}
	return fw.WriteFrame(payload)
}

func (l *Loop) writeNotification(fw *wire.FrameWriter, notif Notification) error {
	payload, err := wire.EncodeEnvelope("Notification", notif)
	if err != nil {
		return err
	}
	return fw.WriteFrame(payload)
}

// readLoop is the reader goroutine: it owns the FrameReader exclusively,
// decoding each frame's envelope and then its body (via the tag-keyed
// factories in dispatch.go) before handing a fully-typed inbound message
// to the main loop. A read or decode failure is reported once on errCh
// and the goroutine exits, closing reqCh so the main loop notices even if
// it is blocked waiting on it.
func (l *Loop) readLoop(reqCh chan<- inbound, errCh chan<- error) {
	defer close(reqCh)

	fr := wire.NewFrameReader(l.in)
	for {
		frame, err := fr.ReadFrame()
		if err != nil {
			errCh <- errs.NewTransportFailure(err)
			return
		}

		env, err := wire.DecodeEnvelope(frame)
		if err != nil {
			errCh <- errs.NewTransportFailure(err)
			return
		}

		body, ok := NewRequestBody(env.Tag)
		if !ok {
			errCh <- errs.NewTransportFailure(fmt.Errorf("unknown request tag %q", env.Tag))
			return
		}
		if err := wire.DecodeBody(env.Body, body); err != nil {
			errCh <- errs.NewTransportFailure(err)
			return
		}

		reqCh <- inbound{tag: env.Tag, body: body}
	}
}

func toErrorInfo(err error) *ErrorInfo {
	if detail, ok := errs.Detail(err); ok {
		return &ErrorInfo{
			Short:      detail.Short,
			Medium:     detail.Medium,
			Long:       detail.Long,
			Debug:      detail.Debug,
			Actionable: detail.Actionable,
		}
	}
	return &ErrorInfo{Medium: err.Error()}
}
