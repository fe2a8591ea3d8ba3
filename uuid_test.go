package doctree

import "testing"

func TestUUID(t *testing.T) {
	if !NilUUID.IsNil() {
		t.Errorf("NilUUID should be nil")
	}
	id := NewUUID()
	if id.IsNil() {
		t.Fatalf("NewUUID returned the nil UUID")
	}
	if id == NewUUID() {
		t.Errorf("two NewUUID calls returned the same id")
	}
	parsed, err := ParseUUID(id.String())
	if err != nil {
		t.Fatalf("ParseUUID(%s) failed, err: %v", id, err)
	}
	if parsed != id {
		t.Errorf("got %s, want %s", parsed, id)
	}
	if _, err := ParseUUID("not-a-uuid"); err == nil {
		t.Errorf("expected parse error")
	}
}
