package notify

import (
	"strings"
	"testing"

	"github.com/openpaws/policyradar/internal/model"
)

func TestNewEmailSender_Validation(t *testing.T) {
	base := model.NotifyConfig{
		From:     "alerts@example.org",
		Password: "secret",
		To:       []string{"team@example.org"},
	}

	if _, err := NewEmailSender(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*model.NotifyConfig)
	}{
		{"missing from", func(c *model.NotifyConfig) { c.From = "" }},
		{"missing password", func(c *model.NotifyConfig) { c.Password = "" }},
		{"no recipients", func(c *model.NotifyConfig) { c.To = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if _, err := NewEmailSender(cfg); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

func TestMessage_Headers(t *testing.T) {
	s, err := NewEmailSender(model.NotifyConfig{
		From:     "alerts@example.org",
		Password: "secret",
		To:       []string{"a@example.org", "b@example.org"},
	})
	if err != nil {
		t.Fatalf("NewEmailSender: %v", err)
	}

	b, err := BuildBundle(analyzedRecord())
	if err != nil {
		t.Fatalf("BuildBundle: %v", err)
	}

	msg := string(s.message(b))
	header, body, found := strings.Cut(msg, "\r\n\r\n")
	if !found {
		t.Fatal("message has no header/body separator")
	}
	for _, want := range []string{
		"From: alerts@example.org",
		"To: a@example.org, b@example.org",
		"Subject: Policy alert: Draft Animal Transport Rules",
		"Content-Type: text/plain; charset=utf-8",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if !strings.Contains(body, "Draft Animal Transport Rules") {
		t.Error("body missing record title")
	}
}
