// Package capability defines the fixed table of admin capabilities the
// module exposes to a host dispatcher: one named entry per operation,
// each pairing a natural-language trigger predicate with a handler.  The
// module does not own the dispatch loop — Dispatch is a convenience for
// hosts (and the HTTP harness) that want plain first-match semantics.
package capability

import (
	"context"
	"strings"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/extract"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/service"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/types"
)

type Capability struct {
	Name   string
	Match  func(text string) bool
	Handle func(ctx context.Context, text string) types.Response
}

// Table builds the capability list for one AdminService instance.  Gated
// capabilities do not match while the gate is locked, so a host that
// routes on Match never even reaches their handlers before elevation.
// The handlers re-check the gate regardless; Match is routing, not
// authorization.
func Table(svc *service.AdminService) []Capability {
	g := svc.Gate()

	return []Capability{
		{
			Name: "ELEVATE_PRIVILEGE",
			Match: func(text string) bool {
				t := strings.ToLower(text)
				if strings.Contains(t, "elevate") && containsAny(t, "admin", "privilege") {
					return true
				}
				if strings.Contains(t, "admin") && containsAny(t, "unlock", "key", "password", "priv") {
					_, ok := extract.Secret(text)
					return ok
				}
				return false
			},
			Handle: func(_ context.Context, text string) types.Response {
				return svc.Elevate(text)
			},
		},
		{
			Name: "GLOBAL_REPORT",
			Match: func(text string) bool {
				t := strings.ToLower(text)
				return g.Unlocked() && strings.Contains(t, "report") &&
					containsAny(t, "global", "daily", "today")
			},
			Handle: svc.DailyReport,
		},
		{
			Name: "LIST_ALL_ROOMS",
			Match: func(text string) bool {
				t := strings.ToLower(text)
				return g.Unlocked() && containsAny(t, "list", "show") &&
					containsAny(t, "rooms", "channels")
			},
			Handle: func(ctx context.Context, _ string) types.Response {
				return svc.RoomRoster(ctx)
			},
		},
		{
			Name: "LIST_ALL_USERS",
			Match: func(text string) bool {
				t := strings.ToLower(text)
				return g.Unlocked() && containsAny(t, "list", "show") &&
					containsAny(t, "users", "entities", "everyone")
			},
			Handle: func(ctx context.Context, _ string) types.Response {
				return svc.UserRoster(ctx)
			},
		},
		{
			Name: "SEARCH_MESSAGES",
			Match: func(text string) bool {
				t := strings.ToLower(text)
				return g.Unlocked() && strings.Contains(t, "search") &&
					containsAny(t, "message", "all")
			},
			Handle: svc.SearchMessages,
		},
		{
			Name: "USER_AUDIT",
			Match: func(text string) bool {
				t := strings.ToLower(text)
				return g.Unlocked() && strings.Contains(t, "audit") &&
					containsAny(t, "user", "entity")
			},
			Handle: svc.UserAudit,
		},
	}
}

// Dispatch routes text to the first capability whose trigger matches.
// The second return is false when nothing matched.
func Dispatch(ctx context.Context, caps []Capability, text string) (types.Response, bool) {
	for _, c := range caps {
		if c.Match(text) {
			return c.Handle(ctx, text), true
		}
	}
	return types.Response{}, false
}

func containsAny(t string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}
