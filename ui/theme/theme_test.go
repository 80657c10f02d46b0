package theme

import (
	"strings"
	"testing"
)

func TestPaintWithoutColorIsIdentity(t *testing.T) {
	prev := Color()
	defer SetColor(prev)

	SetColor(false)
	for _, r := range []Role{RolePlain, RoleTitle, RoleOK, RoleWarn, RoleError, RoleMuted, RoleAccent} {
		if got := Paint(r, "x"); got != "x" {
			t.Fatalf("role %d: got %q", r, got)
		}
	}
	SetColor(true)
	if got := Paint(RoleOK, "x"); !strings.Contains(got, "x") {
		t.Fatalf("styled output lost the text: %q", got)
	}
	if got := Paint(RoleOK, ""); got != "" {
		t.Fatalf("empty input must stay empty, got %q", got)
	}
}

func TestNutriScoreRoles(t *testing.T) {
	cases := map[string]Role{"A": RoleOK, "B": RoleOK, "C": RoleWarn, "E": RoleError, "N/A": RoleMuted}
	for g, want := range cases {
		if got := NutriScore(g); got != want {
			t.Fatalf("%s: got %d want %d", g, got, want)
		}
	}
}
