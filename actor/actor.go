// Package actor captures who (or what) is driving the audited unit of
// work. The snapshot is taken once when a recorder is built, never
// re-fetched per entry.
package actor

import (
	"context"
	"net"
	"os"
)

// Kind distinguishes human-triggered events from system-triggered ones.
type Kind string

const (
	KindUser   Kind = "User"
	KindSystem Kind = "System"
)

// Host names the server instance that produced an entry.
type Host struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Snapshot is the actor/session state stamped onto every entry of a
// unit of work.
type Snapshot struct {
	Kind        Kind   `json:"kind"`
	AccountName string `json:"account_name"`
	UserID      int64  `json:"user_id"`
	RoleID      int64  `json:"role_id"`
	RoleName    string `json:"role_name"`
	OrgID       int64  `json:"org_id"`
	OrgName     string `json:"org_name"`
	Origin      Host   `json:"origin"`
}

// Provider resolves the current actor. Implementations read the ambient
// session (token, RPC metadata); the engine never does.
type Provider interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// StaticProvider returns a fixed snapshot. Used for system actors
// (schedulers, migrations) and in tests.
type StaticProvider struct {
	Value Snapshot
}

func (p StaticProvider) Snapshot(context.Context) (Snapshot, error) {
	return p.Value, nil
}

// SystemSnapshot builds the conventional snapshot for platform-internal
// work running on this host.
func SystemSnapshot(account string) Snapshot {
	return Snapshot{
		Kind:        KindSystem,
		AccountName: account,
		Origin:      DetectHost(),
	}
}

// DetectHost resolves this instance's name and first non-loopback
// address. Failures degrade to empty strings; origin identification is
// informational and must never block auditing.
func DetectHost() Host {
	h := Host{}
	if name, err := os.Hostname(); err == nil {
		h.Name = name
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return h
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			h.Address = ip4.String()
			break
		}
	}
	return h
}
