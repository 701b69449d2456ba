package resilience

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
)

func TestIsTransient_Nil(t *testing.T) {
	if IsTransient(nil) {
		t.Error("nil error should not be transient")
	}
}

func TestIsTransient_ExplicitWrapped(t *testing.T) {
	err := eris.Wrap(NewTransientError(errors.New("busy")), "store: save")
	if !IsTransient(err) {
		t.Error("wrapped TransientError should be transient")
	}
}

func TestIsTransient_RegularError(t *testing.T) {
	if IsTransient(errors.New("validate: invalid record")) {
		t.Error("regular error should not be transient")
	}
}

func TestIsTransient_Syscalls(t *testing.T) {
	for _, errno := range []syscall.Errno{syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ECONNABORTED} {
		if !IsTransient(fmt.Errorf("dial tcp: %w", errno)) {
			t.Errorf("%v should be transient", errno)
		}
	}
}

func TestIsTransient_NetworkTimeout(t *testing.T) {
	if !IsTransient(&net.DNSError{IsTimeout: true, Err: "timeout"}) {
		t.Error("network timeout should be transient")
	}
}

func TestIsTransient_PgErrorCodes(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03", "57P01", "53300", "08006"} {
		err := fmt.Errorf("postgres: insert: %w", &pgconn.PgError{Code: code})
		if !IsTransient(err) {
			t.Errorf("SQLSTATE %s should be transient", code)
		}
	}
	for _, code := range []string{"23505", "23503", "42P01"} {
		if IsTransient(&pgconn.PgError{Code: code}) {
			t.Errorf("SQLSTATE %s should not be transient", code)
		}
	}
}

func TestIsTransient_Patterns(t *testing.T) {
	for _, msg := range []string{
		"database is locked (5) (SQLITE_BUSY)",
		"database table is locked",
		"connection reset by peer",
		"write: broken pipe",
		"read tcp: i/o timeout",
		"conn closed",
	} {
		if !IsTransient(errors.New(msg)) {
			t.Errorf("expected %q to be transient", msg)
		}
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	inner := errors.New("root cause")
	te := NewTransientError(inner)
	if !errors.Is(te, inner) {
		t.Error("TransientError should unwrap to the inner error")
	}
	if te.Error() != "root cause" {
		t.Errorf("unexpected message %q", te.Error())
	}
}
