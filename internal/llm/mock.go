package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Reply is one scripted Mock answer: either content or an error.
type Reply struct {
	Content string
	Usage   Usage
	Err     error
}

// Mock replays scripted replies in order and records every request.
// Content is checked against the request schema like a real vendor reply.
type Mock struct {
	mu       sync.Mutex
	script   []Reply
	requests []Request
}

func NewMock(script ...Reply) *Mock {
	return &Mock{script: script}
}

func (m *Mock) Model() string { return VendorMock }

// Push appends replies to the script.
func (m *Mock) Push(r ...Reply) {
	m.mu.Lock()
	m.script = append(m.script, r...)
	m.mu.Unlock()
}

func (m *Mock) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		m.mu.Unlock()
		return nil, &Error{Kind: KindUnavailable, Vendor: VendorMock}
	}
	next := m.script[0]
	m.script = m.script[1:]
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	return finish(VendorMock, req, &Response{
		Content: json.RawMessage(next.Content),
		Usage:   next.Usage,
		Model:   VendorMock,
	})
}

// Requests returns a copy of what Generate has seen.
func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
