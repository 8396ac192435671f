package fn

import (
	"errors"
	"testing"
)

func TestOkAndErr(t *testing.T) {
	r := Ok(42)
	if !r.IsOk() || r.IsErr() {
		t.Fatal("Ok should be ok")
	}
	v, err := r.Unwrap()
	if v != 42 || err != nil {
		t.Fatal("wrong unwrap")
	}

	e := Err[int](errors.New("fail"))
	if e.IsOk() || !e.IsErr() {
		t.Fatal("Err should be err")
	}
	if e.Error() == nil || r.Error() != nil {
		t.Fatal("Error should expose only the failure")
	}
}

func TestFromPair(t *testing.T) {
	if !FromPair("x", nil).IsOk() {
		t.Fatal("nil error should be ok")
	}
	boom := errors.New("boom")
	r := FromPair("x", boom)
	if r.IsOk() || !errors.Is(r.Error(), boom) {
		t.Fatal("error should be kept")
	}
}
