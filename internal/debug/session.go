/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package debug

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/go-dap"
	"github.com/google/uuid"

	"github.com/suzmue/vscode-go/pkg/concurrency"
)

// SessionConfig holds the configuration for creating a Session.
type SessionConfig struct {
	// Transport is the connection to the debug adapter. Required.
	Transport Transport

	// OnEvent is invoked from the read loop for every event the adapter
	// emits. Handlers must not call back into SendRequest. Optional.
	OnEvent func(event dap.EventMessage)

	// Logger for session operations.
	Logger logr.Logger
}

// Session is one live connection to a debug adapter. All request/response
// exchanges are serialized through a FIFO mutex: the adapter never sees a
// second request before the previous one has been answered, and callers that
// issue requests concurrently are served in arrival order.
type Session struct {
	id        string
	transport Transport
	mu        *concurrency.Mutex
	onEvent   func(dap.EventMessage)
	log       logr.Logger

	// stateMu guards nextSeq, pending and readErr.
	stateMu sync.Mutex
	nextSeq int
	pending map[int]chan dap.ResponseMessage
	readErr error

	done      chan struct{}
	closeOnce sync.Once
}

// NewSession creates a session over the given transport and starts its read
// loop. Callers must Close the session to release the transport.
func NewSession(config SessionConfig) *Session {
	log := config.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	id := uuid.New().String()
	s := &Session{
		id:        id,
		transport: config.Transport,
		mu:        concurrency.NewMutex(),
		onEvent:   config.OnEvent,
		log:       log.WithValues("session", id),
		nextSeq:   1,
		pending:   make(map[int]chan dap.ResponseMessage),
		done:      make(chan struct{}),
	}

	go s.readLoop()

	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// SendRequest sends one request to the adapter and waits for its response.
// The session's sequence number is assigned here; any Seq on the request is
// overwritten. Requests from concurrent callers are serialized in FIFO
// order, and a slow or failing exchange does not corrupt the ones queued
// behind it.
func (s *Session) SendRequest(ctx context.Context, req dap.RequestMessage) (dap.ResponseMessage, error) {
	release := s.mu.Acquire()
	defer release()

	seq, respChan, err := s.register(req)
	if err != nil {
		return nil, err
	}
	defer s.unregister(seq)

	if writeErr := s.transport.WriteMessage(req); writeErr != nil {
		return nil, writeErr
	}

	select {
	case resp, ok := <-respChan:
		if !ok {
			return nil, s.readFailure()
		}
		return resp, nil
	case <-s.done:
		return nil, s.readFailure()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts the session down. Pending and future SendRequest calls return
// an error.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.transport.Close()
	})
	return err
}

// Done is closed when the session's read loop has stopped, either because
// the session was closed or because the connection failed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// register allocates the next sequence number, stamps it on the request and
// records a response channel for it.
func (s *Session) register(req dap.RequestMessage) (int, chan dap.ResponseMessage, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.readErr != nil {
		return 0, nil, s.readErr
	}

	seq := s.nextSeq
	s.nextSeq++
	req.GetRequest().Seq = seq

	respChan := make(chan dap.ResponseMessage, 1)
	s.pending[seq] = respChan

	return seq, respChan, nil
}

func (s *Session) unregister(seq int) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	delete(s.pending, seq)
}

func (s *Session) readFailure() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.readErr != nil {
		return s.readErr
	}
	return fmt.Errorf("session closed")
}

// readLoop demultiplexes incoming messages: responses are routed to the
// waiting SendRequest call by request sequence number, events go to the
// OnEvent handler. The loop exits on the first read error, failing all
// pending requests.
func (s *Session) readLoop() {
	defer close(s.done)

	for {
		msg, readErr := s.transport.ReadMessage()
		if readErr != nil {
			s.failPending(readErr)
			return
		}

		switch m := msg.(type) {
		case dap.ResponseMessage:
			s.deliver(m)
		case dap.EventMessage:
			if s.onEvent != nil {
				s.onEvent(m)
			}
		default:
			s.log.V(1).Info("Ignoring unexpected message from adapter", "type", fmt.Sprintf("%T", msg))
		}
	}
}

func (s *Session) deliver(resp dap.ResponseMessage) {
	s.stateMu.Lock()
	respChan, found := s.pending[resp.GetResponse().RequestSeq]
	s.stateMu.Unlock()

	if !found {
		s.log.V(1).Info("Dropping response with no matching request",
			"requestSeq", resp.GetResponse().RequestSeq,
			"command", resp.GetResponse().Command)
		return
	}

	respChan <- resp
}

func (s *Session) failPending(cause error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.readErr = cause
	for seq, respChan := range s.pending {
		close(respChan)
		delete(s.pending, seq)
	}
}
