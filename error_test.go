package doctree

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestNewError(t *testing.T) {
	cause := os.ErrNotExist
	err := error(NewError(FetchFailure, cause, "json/home.json"))

	if !errors.Is(err, ErrFetch) {
		t.Errorf("expected error to match ErrFetch")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected error to match its cause")
	}
	if CodeOf(err) != FetchFailure {
		t.Errorf("got code %d, want %d", CodeOf(err), FetchFailure)
	}
	if !strings.Contains(err.Error(), "json/home.json") {
		t.Errorf("user data missing from message: %s", err.Error())
	}
}

func TestNewError_Nesting(t *testing.T) {
	inner := NewError(ChildNotFound, nil, "kjv")
	outer := NewError(InitializationFailed, inner, "kjv")

	if !errors.Is(outer, ErrInitializationFailed) || !errors.Is(outer, ErrChildNotFound) {
		t.Errorf("expected both sentinels in chain, got %v", outer)
	}
	if CodeOf(outer) != InitializationFailed {
		t.Errorf("CodeOf should report the outermost code, got %d", CodeOf(outer))
	}
	if CodeOf(errors.New("plain")) != Unknown {
		t.Errorf("plain errors have no code")
	}
}
