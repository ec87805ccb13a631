// Package apitest provides an in-memory api.Transport for tests.
package apitest

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/escrow-tf/steamtrade/api"
)

// Call is a request seen by FakeTransport.
type Call struct {
	Method  string
	Url     string
	Values  url.Values
	Headers http.Header
}

// Response is a canned reply. A Status other than 0 or 200 produces an *api.TransportError.
type Response struct {
	Status int
	Body   string
	Err    error
}

// FakeTransport replies to requests in order with queued responses and records every call.
type FakeTransport struct {
	mu        sync.Mutex
	responses []Response
	calls     []Call
}

func NewFakeTransport(bodies ...string) *FakeTransport {
	transport := &FakeTransport{}
	transport.QueueBodies(bodies...)
	return transport
}

func (f *FakeTransport) Queue(responses ...Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, responses...)
}

func (f *FakeTransport) QueueBodies(bodies ...string) {
	for _, body := range bodies {
		f.Queue(Response{Status: http.StatusOK, Body: body})
	}
}

func (f *FakeTransport) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *FakeTransport) Send(_ context.Context, request api.Request, response any) error {
	values, err := request.Values()
	if err != nil {
		return err
	}

	headers, err := request.Headers()
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{
		Method:  request.Method(),
		Url:     request.Url(),
		Values:  values,
		Headers: headers,
	})
	if len(f.responses) == 0 {
		f.mu.Unlock()
		return eris.Errorf("unexpected %s %s", request.Method(), request.Url())
	}
	reply := f.responses[0]
	f.responses = f.responses[1:]
	f.mu.Unlock()

	if reply.Err != nil {
		return reply.Err
	}

	if reply.Status != 0 && reply.Status != http.StatusOK {
		return &api.TransportError{
			Method:     request.Method(),
			Url:        request.Url(),
			StatusCode: reply.Status,
		}
	}

	return api.DecodeBody([]byte(reply.Body), response)
}
