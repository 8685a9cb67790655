package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestShareMessageValidate(t *testing.T) {
	for _, kind := range []MessageKind{KindText, KindURL, KindClipboard, KindVoice, KindImage, KindFile} {
		m := ShareMessage{Kind: kind, Content: "payload"}
		if err := m.Validate(); err != nil {
			t.Fatalf("kind %q rejected: %v", kind, err)
		}
	}

	m := ShareMessage{Kind: "smoke-signal", Content: "x"}
	if err := m.Validate(); !errors.Is(err, ErrBadMessageKind) {
		t.Fatalf("unknown kind: %v", err)
	}
	m = ShareMessage{Kind: KindText}
	if err := m.Validate(); !errors.Is(err, ErrMessageEmpty) {
		t.Fatalf("empty content: %v", err)
	}
	m = ShareMessage{Kind: KindText, Content: strings.Repeat("a", MaxMessageLen+1)}
	if err := m.Validate(); !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("oversized content: %v", err)
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  ab12cd34 "); got != "AB12CD34" {
		t.Fatalf("NormalizeCode = %q", got)
	}
}
