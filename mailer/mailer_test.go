package mailer

import (
	"errors"
	"strings"
	"testing"
)

func TestNewSMTP(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErr  bool
		wantFrom string
		wantPort int
	}{
		{name: "no host", cfg: Config{User: "a@b.c"}, wantErr: true},
		{name: "no sender", cfg: Config{Host: "smtp.example.com"}, wantErr: true},
		{name: "from defaults to user", cfg: Config{Host: "smtp.example.com", User: "bot@example.com"}, wantFrom: "bot@example.com", wantPort: 587},
		{name: "explicit from and port", cfg: Config{Host: "smtp.example.com", Port: 465, User: "u", From: "event@example.com"}, wantFrom: "event@example.com", wantPort: 465},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewSMTP(tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrNotConfigured) {
					t.Fatalf("Expected ErrNotConfigured, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSMTP failed: %v", err)
			}
			if m.cfg.From != tt.wantFrom {
				t.Errorf("Expected from %q, got %q", tt.wantFrom, m.cfg.From)
			}
			if m.cfg.Port != tt.wantPort {
				t.Errorf("Expected port %d, got %d", tt.wantPort, m.cfg.Port)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	m, err := NewSMTP(Config{Host: "smtp.example.com", User: "bot@example.com"})
	if err != nil {
		t.Fatalf("NewSMTP failed: %v", err)
	}

	raw := string(m.compose(AccessCodeMessage("lea@example.com", "Léa", "ab12cd")))

	for _, want := range []string{
		"From: bot@example.com\r\n",
		"To: lea@example.com\r\n",
		"Subject: =?utf-8?q?",
		"Content-Type: text/plain; charset=UTF-8\r\n",
		"Bonjour Léa,\r\n",
		"ab12cd",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("Expected message to contain %q:\n%s", want, raw)
		}
	}
	if strings.Contains(strings.ReplaceAll(raw, "\r\n", ""), "\n") {
		t.Error("Expected CRLF line endings only")
	}
}

func TestAccessCodeMessage_NoName(t *testing.T) {
	msg := AccessCodeMessage("x@example.com", "", "zz99")
	if !strings.HasPrefix(msg.Body, "Bonjour,\n") {
		t.Errorf("Unexpected greeting: %q", msg.Body)
	}
}
