package storage

import (
	"context"
	"net/url"
	"testing"
)

func TestIsAbsoluteURL(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://cdn.example.com/audio/1.webm", true},
		{"http://localhost:9000/meeting-audio/1.webm", true},
		{"audio/2026/01/1.webm", false},
		{"/audio/1.webm", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isAbsoluteURL(tt.ref); got != tt.want {
			t.Errorf("isAbsoluteURL(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestRewriteHost(t *testing.T) {
	u, err := url.Parse("http://minio.internal:9000/meeting-audio/a.webm?X-Amz-Signature=abc")
	if err != nil {
		t.Fatal(err)
	}

	if got := rewriteHost(u, ""); got != u.String() {
		t.Errorf("without public url: got %q", got)
	}
	want := "https://files.example.com/meeting-audio/a.webm?X-Amz-Signature=abc"
	if got := rewriteHost(u, "https://files.example.com"); got != want {
		t.Errorf("rewriteHost = %q, want %q", got, want)
	}
}

func TestAudioLinkKeepsAbsoluteURLs(t *testing.T) {
	m := &MinIOClient{bucket: "meeting-audio"}
	ref := "https://cdn.example.com/audio/1.webm"

	got, err := m.AudioLink(context.Background(), ref)
	if err != nil {
		t.Fatalf("AudioLink: %v", err)
	}
	if got != ref {
		t.Errorf("AudioLink = %q, want %q", got, ref)
	}
}

func TestPassthrough(t *testing.T) {
	got, err := Passthrough{}.AudioLink(context.Background(), "audio/1.webm")
	if err != nil || got != "audio/1.webm" {
		t.Errorf("Passthrough = %q, %v", got, err)
	}
}
