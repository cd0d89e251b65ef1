/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/google/go-dap"
)

// Transport carries DAP protocol messages to and from a debug adapter.
// Implementations must tolerate concurrent reads and writes, but individual
// reads (and individual writes) may not be concurrent with each other.
type Transport interface {
	// ReadMessage blocks until the next complete DAP message arrives.
	ReadMessage() (dap.Message, error)

	// WriteMessage sends one DAP message.
	WriteMessage(msg dap.Message) error

	// Close releases the underlying connection. Blocked reads and writes
	// return with an error after Close.
	Close() error
}

// streamTransport implements Transport over a reader/writer pair, which
// covers both socket connections and stdio pipes to an adapter process.
type streamTransport struct {
	reader *bufio.Reader
	writer *bufio.Writer
	closer io.Closer

	writeMu sync.Mutex

	mu     sync.Mutex
	closed bool
}

// NewConnTransport wraps a network connection to the debug adapter.
func NewConnTransport(conn net.Conn) Transport {
	return &streamTransport{
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
		closer: conn,
	}
}

// Dial connects to a debug adapter listening on a TCP address.
func Dial(ctx context.Context, address string) (Transport, error) {
	var d net.Dialer
	conn, dialErr := d.DialContext(ctx, "tcp", address)
	if dialErr != nil {
		return nil, fmt.Errorf("failed to dial debug adapter at %s: %w", address, dialErr)
	}

	return NewConnTransport(conn), nil
}

// NewPipeTransport wraps the stdio pipes of a debug adapter process:
// out is the adapter's stdin, in is its stdout.
func NewPipeTransport(in io.ReadCloser, out io.WriteCloser) Transport {
	return &streamTransport{
		reader: bufio.NewReader(in),
		writer: bufio.NewWriter(out),
		closer: multiCloser{in, out},
	}
}

func (t *streamTransport) ReadMessage() (dap.Message, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, fmt.Errorf("transport is closed")
	}
	t.mu.Unlock()

	msg, readErr := dap.ReadProtocolMessage(t.reader)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read DAP message: %w", readErr)
	}

	return msg, nil
}

func (t *streamTransport) WriteMessage(msg dap.Message) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return fmt.Errorf("transport is closed")
	}
	t.mu.Unlock()

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	writeErr := dap.WriteProtocolMessage(t.writer, msg)
	if writeErr != nil {
		return fmt.Errorf("failed to write DAP message: %w", writeErr)
	}

	flushErr := t.writer.Flush()
	if flushErr != nil {
		return fmt.Errorf("failed to flush DAP message: %w", flushErr)
	}

	return nil
}

func (t *streamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	return t.closer.Close()
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
