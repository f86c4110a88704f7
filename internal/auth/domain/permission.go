package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Permission is a capability bitset. Each of the five actions carries a
// separate bit for operating on the caller's own client record (Self) and
// on another client's record (Other). Stored as a single integer column.
type Permission uint64

const (
	PermissionUseSelf Permission = 1 << iota
	PermissionUseOther
	PermissionStatusSelf
	PermissionStatusOther
	PermissionCreateSelf
	PermissionCreateOther
	PermissionDeleteSelf
	PermissionDeleteOther
	PermissionUpdateSelf
	PermissionUpdateOther
)

// PermissionAll has every defined capability bit set.
const PermissionAll = PermissionUseSelf | PermissionUseOther |
	PermissionStatusSelf | PermissionStatusOther |
	PermissionCreateSelf | PermissionCreateOther |
	PermissionDeleteSelf | PermissionDeleteOther |
	PermissionUpdateSelf | PermissionUpdateOther

// ErrCorruptPermissions reports a persisted bitset with bits outside the
// defined range. Such a value is never interpreted: fail closed.
var ErrCorruptPermissions = errors.New("domain: corrupt permission data")

// permissionNames is ordered by bit position so String output is stable.
var permissionNames = []struct {
	bit  Permission
	name string
}{
	{PermissionUseSelf, "USE_SELF"},
	{PermissionUseOther, "USE_OTHER"},
	{PermissionStatusSelf, "STATUS_SELF"},
	{PermissionStatusOther, "STATUS_OTHER"},
	{PermissionCreateSelf, "CREATE_SELF"},
	{PermissionCreateOther, "CREATE_OTHER"},
	{PermissionDeleteSelf, "DELETE_SELF"},
	{PermissionDeleteOther, "DELETE_OTHER"},
	{PermissionUpdateSelf, "UPDATE_SELF"},
	{PermissionUpdateOther, "UPDATE_OTHER"},
}

var permissionsByName = func() map[string]Permission {
	m := make(map[string]Permission, len(permissionNames))
	for _, p := range permissionNames {
		m[p.name] = p.bit
	}
	return m
}()

// PermissionFromBits validates a persisted integer against the defined bit
// range. Unknown bits are an error, never a silent grant.
func PermissionFromBits(bits int64) (Permission, error) {
	if bits < 0 || Permission(bits)&^PermissionAll != 0 {
		return 0, fmt.Errorf("%w: unknown bits in %#x", ErrCorruptPermissions, bits)
	}
	return Permission(bits), nil
}

// Bits returns the integer encoding persisted to storage.
func (p Permission) Bits() int64 { return int64(p) }

// Contains reports whether every bit set in required is also set in p.
func (p Permission) Contains(required Permission) bool {
	return p&required == required
}

// Union returns the combined capability set.
func (p Permission) Union(other Permission) Permission { return p | other }

// String renders the set as flag names joined by " | ", e.g.
// "USE_SELF | STATUS_OTHER". The empty set renders as "".
func (p Permission) String() string {
	if p == 0 {
		return ""
	}
	names := make([]string, 0, len(permissionNames))
	for _, entry := range permissionNames {
		if p&entry.bit != 0 {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, " | ")
}

// Names returns the individual flag names, in bit order.
func (p Permission) Names() []string {
	names := make([]string, 0, len(permissionNames))
	for _, entry := range permissionNames {
		if p&entry.bit != 0 {
			names = append(names, entry.name)
		}
	}
	return names
}

// ParsePermission is the inverse of String: it accepts flag names joined by
// "|" (surrounding whitespace ignored) and errors on any unknown name.
func ParsePermission(s string) (Permission, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	var p Permission
	for part := range strings.SplitSeq(s, "|") {
		name := strings.TrimSpace(part)
		bit, ok := permissionsByName[name]
		if !ok {
			return 0, fmt.Errorf("domain: unknown permission %q", name)
		}
		p |= bit
	}
	return p, nil
}

// ParsePermissionNames folds a list of flag names into one set. Used for
// JSON request bodies, which carry permissions as arrays of names.
func ParsePermissionNames(names []string) (Permission, error) {
	var p Permission
	for _, name := range names {
		bit, ok := permissionsByName[strings.TrimSpace(name)]
		if !ok {
			return 0, fmt.Errorf("domain: unknown permission %q", name)
		}
		p |= bit
	}
	return p, nil
}

// MarshalJSON encodes the set as an array of flag names.
func (p Permission) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Names())
}

// UnmarshalJSON decodes an array of flag names.
func (p *Permission) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParsePermissionNames(names)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
