package client

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/clubdesk/console/internal/notify"
)

// Kind classifies a failed call
type Kind int

const (
	// KindEnvelope is a response whose envelope code is non-zero
	KindEnvelope Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindServer
	// KindHTTP is any other non-2xx status
	KindHTTP
	KindTimeout
	KindNetwork
	// KindCanceled is a call abandoned by its caller; it is never notified
	KindCanceled
)

// User-visible messages
const (
	MsgRequestFailed = "Request failed"
	MsgLoginExpired  = "Login expired, please log in again"
	MsgForbidden     = "You do not have permission to access this resource"
	MsgNotFound      = "The requested resource does not exist"
	MsgServerError   = "Server error, please try again later"
	MsgTimeout       = "Request timed out, please check your network"
	MsgNetwork       = "Network error, please check your connection"
)

var (
	ErrEnvelope     = errors.New("api error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrHTTP         = errors.New("http error")
	ErrTimeout      = errors.New("timeout")
	ErrNetwork      = errors.New("network error")
	ErrCanceled     = errors.New("canceled")
)

func (k Kind) sentinel() error {
	switch k {
	case KindEnvelope:
		return ErrEnvelope
	case KindUnauthorized:
		return ErrUnauthorized
	case KindForbidden:
		return ErrForbidden
	case KindNotFound:
		return ErrNotFound
	case KindServer:
		return ErrServer
	case KindHTTP:
		return ErrHTTP
	case KindTimeout:
		return ErrTimeout
	case KindNetwork:
		return ErrNetwork
	case KindCanceled:
		return ErrCanceled
	}
	return ErrHTTP
}

func (k Kind) String() string {
	return k.sentinel().Error()
}

// Error is the single failure type returned by Client.Do
type Error struct {
	Kind Kind
	// HTTP status, zero when no response was received
	Status int
	// Envelope code, zero for transport failures
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind, so errors.Is(err, ErrUnauthorized) works
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// ClassifyEnvelope turns a non-zero envelope into an error
func ClassifyEnvelope(code int, message string) *Error {
	if message == "" {
		message = MsgRequestFailed
	}
	kind := KindEnvelope
	if code == http.StatusUnauthorized {
		kind = KindUnauthorized
	}
	return &Error{Kind: kind, Code: code, Message: message}
}

// ClassifyTransport turns a failed exchange into an error. status is zero when no
// response was received; bodyMessage is the message of an envelope-shaped error body.
func ClassifyTransport(status int, bodyMessage string, err error) *Error {
	e := &Error{Status: status, Err: err}

	switch {
	case status == http.StatusUnauthorized:
		e.Kind, e.Message = KindUnauthorized, MsgLoginExpired
	case status == http.StatusForbidden:
		e.Kind, e.Message = KindForbidden, MsgForbidden
	case status == http.StatusNotFound:
		e.Kind, e.Message = KindNotFound, MsgNotFound
	case status >= http.StatusInternalServerError:
		e.Kind, e.Message = KindServer, MsgServerError
	case status != 0:
		e.Kind, e.Message = KindHTTP, bodyMessage
		if e.Message == "" {
			e.Message = MsgRequestFailed
		}
	case errors.Is(err, context.Canceled):
		e.Kind, e.Message = KindCanceled, "Request canceled"
	case isTimeout(err):
		e.Kind, e.Message = KindTimeout, MsgTimeout
	default:
		e.Kind, e.Message = KindNetwork, MsgNetwork
	}
	return e
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// NoticeFor returns the notice displayed for e, or false if e is not shown
func NoticeFor(e *Error) (notify.Notice, bool) {
	if e.Kind == KindCanceled {
		return notify.Notice{}, false
	}
	return notify.Error(e.Message), true
}
