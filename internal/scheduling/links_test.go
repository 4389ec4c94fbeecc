package scheduling

import (
	"context"
	"errors"
	"testing"

	"landing_backend/internal/leads/domain"
	"landing_backend/platform/apperr"
	"landing_backend/platform/logger"
)

type failingLinks struct {
	err error
}

func (f *failingLinks) LinkFor(context.Context, domain.LeadType) (string, error) {
	return "", f.err
}

func TestStaticLinksResolvesByLeadType(t *testing.T) {
	links := &StaticLinks{
		business: "https://calendly.com/acme/intro",
		venture:  "https://calendly.com/acme/venture",
	}

	link, err := links.LinkFor(context.Background(), domain.LeadTypeBusinessUpgrade)
	if err != nil {
		t.Fatalf("LinkFor business returned error: %v", err)
	}
	if link != "https://calendly.com/acme/intro" {
		t.Fatalf("unexpected business link: %q", link)
	}

	link, err = links.LinkFor(context.Background(), domain.LeadTypeVentureStudio)
	if err != nil {
		t.Fatalf("LinkFor venture returned error: %v", err)
	}
	if link != "https://calendly.com/acme/venture" {
		t.Fatalf("unexpected venture link: %q", link)
	}
}

func TestStaticLinksErrorsWhenUnconfigured(t *testing.T) {
	links := &StaticLinks{}

	_, err := links.LinkFor(context.Background(), domain.LeadTypeBusinessUpgrade)
	if err == nil {
		t.Fatal("expected error for missing link")
	}
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error kind, got %v", apperr.GetKind(err))
	}
}

func TestFallbackProviderUsesStaticOnFailure(t *testing.T) {
	primary := &failingLinks{err: errors.New("calendly unavailable")}
	static := &StaticLinks{business: "https://calendly.com/acme/intro"}
	provider := NewFallbackProvider(primary, static, logger.New("development"))

	link, err := provider.LinkFor(context.Background(), domain.LeadTypeBusinessUpgrade)
	if err != nil {
		t.Fatalf("LinkFor returned error: %v", err)
	}
	if link != "https://calendly.com/acme/intro" {
		t.Fatalf("expected static fallback link, got %q", link)
	}
}

func TestFallbackProviderPrefersPrimary(t *testing.T) {
	primary := &StaticLinks{business: "https://calendly.com/acme/d/one-off"}
	static := &StaticLinks{business: "https://calendly.com/acme/intro"}
	provider := NewFallbackProvider(primary, static, logger.New("development"))

	link, err := provider.LinkFor(context.Background(), domain.LeadTypeBusinessUpgrade)
	if err != nil {
		t.Fatalf("LinkFor returned error: %v", err)
	}
	if link != "https://calendly.com/acme/d/one-off" {
		t.Fatalf("expected primary link, got %q", link)
	}
}
