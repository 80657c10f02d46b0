package theme

// Centralized terminal styling. Semantic roles map to ANSI effects from
// islazy/tui; colour can be switched off for pipes and dumb terminals.

import (
	"sync/atomic"

	"github.com/evilsocket/islazy/tui"
)

// Role is a semantic text style.
type Role int

const (
	RolePlain Role = iota
	RoleTitle
	RoleOK
	RoleWarn
	RoleError
	RoleMuted
	RoleAccent
)

// internal flag for current mode
var colour atomic.Bool

func init() { colour.Store(true) }

// SetColor turns ANSI styling on or off. Returns the new mode value.
func SetColor(on bool) bool {
	colour.Store(on)
	return on
}

// Color reports the current mode.
func Color() bool { return colour.Load() }

// Paint styles s for role r, or returns it unchanged when colour is off.
func Paint(r Role, s string) string {
	if !colour.Load() || s == "" {
		return s
	}
	switch r {
	case RoleTitle:
		return tui.Bold(s)
	case RoleOK:
		return tui.Green(s)
	case RoleWarn:
		return tui.Yellow(s)
	case RoleError:
		return tui.Red(s)
	case RoleMuted:
		return tui.Dim(s)
	case RoleAccent:
		return tui.Blue(s)
	}
	return s
}

// NutriScore picks a role for a Nutri-Score grade letter.
func NutriScore(grade string) Role {
	switch grade {
	case "A", "B":
		return RoleOK
	case "C":
		return RoleWarn
	case "D", "E":
		return RoleError
	}
	return RoleMuted
}
