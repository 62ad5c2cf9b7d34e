// Package privileges resolves and applies the user/group identity the
// master process drops to after daemonization.
package privileges

import (
	"fmt"
	"log/slog"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"
)

// Identity is the resolved privilege-drop target. The zero value means
// "unchanged": the process keeps its current uid and gid.
type Identity struct {
	User  string
	Group string
	UID   int
	GID   int

	HasUID bool
	HasGID bool
}

// Unchanged reports whether no identity switch was requested or allowed.
func (id Identity) Unchanged() bool {
	return !id.HasUID && !id.HasGID
}

// Resolve decides the drop target for the current process. See ResolveAs.
func Resolve(userName, groupName string, logger *slog.Logger) (Identity, error) {
	return ResolveAs(userName, groupName, unix.Geteuid(), logger)
}

// ResolveAs resolves the requested user/group against the system identity
// database, conditioned on the effective uid.
//
// Without superuser privileges a drop is inapplicable: the request is
// cleared with a warning, never an error. As superuser an unresolvable
// name is an error, so that the failure surfaces before resource limits
// and the logging channel are set up under the wrong identity.
func ResolveAs(userName, groupName string, euid int, logger *slog.Logger) (Identity, error) {
	var id Identity

	if userName == "" && groupName == "" {
		return id, nil
	}

	if euid != 0 {
		logger.Warn("not running as root, ignoring user/group options",
			"user", userName, "group", groupName)
		return id, nil
	}

	if userName != "" {
		u, err := user.Lookup(userName)
		if err != nil {
			return Identity{}, fmt.Errorf("cannot resolve user %q: %w", userName, err)
		}
		uid, err := strconv.Atoi(u.Uid)
		if err != nil {
			return Identity{}, fmt.Errorf("non-numeric uid %q for user %q", u.Uid, userName)
		}
		id.User = userName
		id.UID = uid
		id.HasUID = true
	}

	if groupName != "" {
		g, err := user.LookupGroup(groupName)
		if err != nil {
			return Identity{}, fmt.Errorf("cannot resolve group %q: %w", groupName, err)
		}
		gid, err := strconv.Atoi(g.Gid)
		if err != nil {
			return Identity{}, fmt.Errorf("non-numeric gid %q for group %q", g.Gid, groupName)
		}
		id.Group = groupName
		id.GID = gid
		id.HasGID = true
	}

	return id, nil
}

// Apply switches the process to the resolved identity. The group is
// switched first; setgid is no longer permitted once the uid changes.
func Apply(id Identity, logger *slog.Logger) error {
	if id.Unchanged() {
		return nil
	}

	if id.HasGID {
		if err := unix.Setgid(id.GID); err != nil {
			return fmt.Errorf("setgid(%d) failed: %w", id.GID, err)
		}
	}
	if id.HasUID {
		if err := unix.Setuid(id.UID); err != nil {
			return fmt.Errorf("setuid(%d) failed: %w", id.UID, err)
		}
	}

	logger.Info("dropped privileges", "uid", id.UID, "gid", id.GID)
	return nil
}
