package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrorCodeUnknown:         http.StatusInternalServerError,
		ErrorCodePanic:           http.StatusInternalServerError,
		ErrorCodeUnavailable:     http.StatusServiceUnavailable,
		ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
		ErrorCodeValidation:      http.StatusBadRequest,
		ErrorCodeJSON:            http.StatusBadRequest,
		ErrorCodeNotFound:        http.StatusNotFound,
		ErrorCodeDB:              http.StatusInternalServerError,
		ErrorCodeTimeout:         http.StatusGatewayTimeout,
		ErrorCode(999):           http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatusCode(code); got != want {
			t.Errorf("HTTPStatusCode(%v) = %d, want %d", code, got, want)
		}
	}
}

func TestErrorCode_String(t *testing.T) {
	if got := ErrorCodeInvalidArgument.String(); got != "invalid_argument" {
		t.Fatalf("String() = %q", got)
	}
	if got := ErrorCode(999).String(); got != "code(999)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestError_Render(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	e := Newf(ErrorCodeJSON, "bad json at %d", 12)
	if e.Error() != "bad json at 12" {
		t.Fatalf("Newf render = %q", e.Error())
	}

	w := Wrap(stderrs.New("eof"), ErrorCodeInvalidArgument, "query token is not valid base64")
	if w.Error() != "query token is not valid base64: eof" {
		t.Fatalf("Wrap render = %q", w.Error())
	}
	pe, ok := As(w)
	if !ok || pe.Message() != "query token is not valid base64" {
		t.Fatalf("Message() lost the cause split: %+v", pe)
	}
	if Root(w).Error() != "eof" {
		t.Fatalf("Root = %v", Root(w))
	}
}

func TestCodeOf(t *testing.T) {
	inner := InvalidArgf("empty query token")
	wrapped := fmt.Errorf("decode: %w", inner)

	if CodeOf(wrapped) != ErrorCodeInvalidArgument {
		t.Fatalf("CodeOf through fmt wrap = %v", CodeOf(wrapped))
	}
	if CodeOf(stderrs.New("plain")) != ErrorCodeUnknown {
		t.Fatal("foreign errors are unknown")
	}
	if CodeOf(fmt.Errorf("run: %w", context.DeadlineExceeded)) != ErrorCodeTimeout {
		t.Fatal("deadline is a timeout")
	}
	if !IsCode(Unavailablef("catalog not loaded"), ErrorCodeUnavailable) {
		t.Fatal("IsCode mismatch")
	}
	if HTTPStatus(PanicErrf("boom")) != http.StatusInternalServerError {
		t.Fatal("panic maps to 500")
	}
}

func TestWithField_CopyOnWrite(t *testing.T) {
	base := InvalidArgf("unknown status")
	named := WithField(base, "status_overrides")

	be, _ := As(base)
	ne, _ := As(named)
	if be.Field() != "" {
		t.Fatalf("base mutated: %q", be.Field())
	}
	if ne.Field() != "status_overrides" || ne.Code() != ErrorCodeInvalidArgument {
		t.Fatalf("named = %+v", ne.ToWire())
	}

	renamed := WithField(named, "left.status_overrides")
	if re, _ := As(renamed); re.Field() != "left.status_overrides" {
		t.Fatalf("field not overwritten: %q", re.Field())
	}

	foreign := stderrs.New("x")
	if WithField(foreign, "f") != foreign {
		t.Fatal("foreign errors pass through WithField")
	}
	chained := WithFieldChain(foreign, "right")
	ce, ok := As(chained)
	if !ok || ce.Field() != "right" || ce.Code() != ErrorCodeUnknown {
		t.Fatalf("WithFieldChain = %+v", chained)
	}
	if !stderrs.Is(chained, foreign) {
		t.Fatal("WithFieldChain must keep the cause")
	}
}

func TestWireFrom(t *testing.T) {
	if (WireFrom(nil) != Wire{}) {
		t.Fatal("nil gives the zero wire")
	}
	w := WireFrom(WithField(InvalidArgf("query token is missing unit"), "unit"))
	if w.Code != ErrorCodeInvalidArgument || w.Field != "unit" || w.Message != "query token is missing unit" {
		t.Fatalf("wire = %+v", w)
	}
	f := WireFrom(stderrs.New("disk"))
	if f.Code != ErrorCodeUnknown || f.Message != "disk" {
		t.Fatalf("foreign wire = %+v", f)
	}
	if ErrNotFound.Error() != "not found" || CodeOf(ErrNotFound) != ErrorCodeNotFound {
		t.Fatal("ErrNotFound")
	}
}
