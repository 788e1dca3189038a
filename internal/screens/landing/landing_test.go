package landing

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/backend/backendtest"
	"github.com/abhisek/promptquest/internal/router"
	"github.com/abhisek/promptquest/internal/screen/screentest"
)

func TestAnonymousSeesMenu(t *testing.T) {
	l := New(screentest.Env(backendtest.New()), "")
	_, nav := screentest.Feed(l, l.Init(), 5)
	if len(nav) != 0 {
		t.Fatalf("unexpected navigation: %v", nav)
	}
	view := l.View(120, 40)
	for _, want := range []string{"Create account", "Sign in", "Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSignedInGoesToDashboard(t *testing.T) {
	fake := backendtest.New()
	fake.SignInAs(&backend.Principal{ID: "u1", Email: "ada@example.com"})
	l := New(screentest.Env(fake), "")

	_, nav := screentest.Feed(l, l.Init(), 5)
	if len(nav) != 1 {
		t.Fatalf("got %d navigation messages, want 1", len(nav))
	}
	reset, ok := nav[0].(router.ResetScreenMsg)
	if !ok {
		t.Fatalf("got %T, want ResetScreenMsg", nav[0])
	}
	stub := reset.Screen.(*screentest.Stub)
	if stub.Name != "dashboard" || stub.Arg != "u1" {
		t.Errorf("reset to %+v, want dashboard for u1", stub)
	}
}

func TestUnavailableShowsNotice(t *testing.T) {
	fake := backendtest.New()
	fake.FailOn("CurrentUser", "", backend.ErrUnavailable)
	l := New(screentest.Env(fake), "")

	_, nav := screentest.Feed(l, l.Init(), 5)
	if len(nav) != 0 {
		t.Fatalf("unexpected navigation: %v", nav)
	}
	if !strings.Contains(l.View(120, 40), "Could not reach the server") {
		t.Error("expected unavailable notice")
	}
}

func TestMenuOpensSignupAndLogin(t *testing.T) {
	l := New(screentest.Env(backendtest.New()), "Signed out.")
	screentest.Feed(l, l.Init(), 5)
	if !strings.Contains(l.View(120, 40), "Signed out.") {
		t.Error("expected notice passed to New")
	}

	_, cmd := l.Update(screentest.Special(tea.KeyEnter))
	msgs := screentest.Run(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if push, ok := msgs[0].(router.PushScreenMsg); !ok || push.Screen.(*screentest.Stub).Name != "signup" {
		t.Errorf("enter on first item = %#v, want push signup", msgs[0])
	}

	l.Update(screentest.Special(tea.KeyDown))
	_, cmd = l.Update(screentest.Special(tea.KeyEnter))
	msgs = screentest.Run(cmd)
	if push, ok := msgs[0].(router.PushScreenMsg); !ok || push.Screen.(*screentest.Stub).Name != "login" {
		t.Errorf("enter on second item = %#v, want push login", msgs[0])
	}
}

func TestKeysIgnoredWhileChecking(t *testing.T) {
	l := New(screentest.Env(backendtest.New()), "")
	l.Init()
	_, cmd := l.Update(screentest.Special(tea.KeyEnter))
	if cmd != nil {
		t.Error("menu should not act before the session check returns")
	}
	if !strings.Contains(l.View(120, 40), "Checking your session") {
		t.Error("expected checking hint")
	}
}

func TestBannerFallsBackWhenNarrow(t *testing.T) {
	if !strings.Contains(RenderBanner(60), bannerCompact) {
		t.Error("narrow banner should use the compact form")
	}
	if strings.Contains(RenderBanner(bannerWidth), bannerCompact) {
		t.Error("wide banner should use the art")
	}
}
