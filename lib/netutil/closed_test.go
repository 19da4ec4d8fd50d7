// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestIsExpectedCloseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eof", io.EOF, true},
		{"short read", io.ErrUnexpectedEOF, true},
		{"wrapped eof", fmt.Errorf("reading frame: %w", io.EOF), true},
		{"closed", net.ErrClosed, true},
		{"broken pipe", &net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)}, true},
		{"reset", &net.OpError{Op: "read", Err: os.NewSyscallError("read", syscall.ECONNRESET)}, true},
		{"refused", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, false},
		{"other", errors.New("protocol violation"), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsExpectedCloseError(test.err); got != test.want {
				t.Errorf("IsExpectedCloseError(%v) = %v, want %v", test.err, got, test.want)
			}
		})
	}
}

func TestIsTimeout(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer listener.Close()

	tcp := listener.(*net.TCPListener)
	if err := tcp.SetDeadline(time.Now().Add(time.Millisecond)); err != nil {
		t.Fatalf("SetDeadline: %v", err)
	}
	_, err = tcp.Accept()
	if !IsTimeout(err) {
		t.Fatalf("IsTimeout(%v) = false after deadline", err)
	}
	if IsTimeout(nil) || IsTimeout(io.EOF) {
		t.Fatal("IsTimeout matched a non-timeout error")
	}
	if !IsTimeout(fmt.Errorf("accept: %w", os.ErrDeadlineExceeded)) {
		t.Fatal("IsTimeout missed a wrapped deadline error")
	}
}
