package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermission_String(t *testing.T) {
	tests := []struct {
		name string
		p    Permission
		want string
	}{
		{"empty set", 0, ""},
		{"single flag", PermissionUseSelf, "USE_SELF"},
		{"two flags", PermissionUseSelf | PermissionStatusOther, "USE_SELF | STATUS_OTHER"},
		{
			"order follows bit position regardless of construction order",
			PermissionUpdateOther | PermissionUseSelf,
			"USE_SELF | UPDATE_OTHER",
		},
		{
			"full set",
			PermissionAll,
			"USE_SELF | USE_OTHER | STATUS_SELF | STATUS_OTHER | " +
				"CREATE_SELF | CREATE_OTHER | DELETE_SELF | DELETE_OTHER | " +
				"UPDATE_SELF | UPDATE_OTHER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.p.String())
		})
	}
}

func TestParsePermission_RoundTrip(t *testing.T) {
	sets := []Permission{
		0,
		PermissionUseSelf,
		PermissionUseSelf | PermissionStatusSelf,
		PermissionDeleteOther | PermissionUpdateOther | PermissionCreateOther,
		PermissionAll,
	}

	for _, p := range sets {
		parsed, err := ParsePermission(p.String())
		require.NoError(t, err)
		require.Equal(t, p, parsed)
	}
}

func TestParsePermission(t *testing.T) {
	t.Run("whitespace tolerated", func(t *testing.T) {
		p, err := ParsePermission("  USE_SELF |STATUS_OTHER  ")
		require.NoError(t, err)
		require.Equal(t, PermissionUseSelf|PermissionStatusOther, p)
	})

	t.Run("empty string is the empty set", func(t *testing.T) {
		p, err := ParsePermission("")
		require.NoError(t, err)
		require.Equal(t, Permission(0), p)
	})

	t.Run("unknown name rejected", func(t *testing.T) {
		_, err := ParsePermission("USE_SELF | FLY")
		require.Error(t, err)
		require.Contains(t, err.Error(), "FLY")
	})
}

func TestParsePermissionNames(t *testing.T) {
	p, err := ParsePermissionNames([]string{"USE_SELF", "CREATE_SELF"})
	require.NoError(t, err)
	require.Equal(t, PermissionUseSelf|PermissionCreateSelf, p)

	p, err = ParsePermissionNames(nil)
	require.NoError(t, err)
	require.Equal(t, Permission(0), p)

	_, err = ParsePermissionNames([]string{"USE_SELF", "bogus"})
	require.Error(t, err)
}

func TestPermission_Contains(t *testing.T) {
	p := PermissionUseSelf | PermissionStatusSelf

	require.True(t, p.Contains(PermissionUseSelf))
	require.True(t, p.Contains(PermissionUseSelf|PermissionStatusSelf))
	require.True(t, p.Contains(0), "every set contains the empty set")

	require.False(t, p.Contains(PermissionUseOther))
	require.False(t, p.Contains(PermissionUseSelf|PermissionUseOther),
		"containment requires every bit, not any bit")

	require.True(t, PermissionAll.Contains(PermissionDeleteOther))
}

func TestPermission_Union(t *testing.T) {
	p := PermissionUseSelf.Union(PermissionStatusSelf)
	require.Equal(t, PermissionUseSelf|PermissionStatusSelf, p)
	require.Equal(t, p, p.Union(PermissionUseSelf), "union is idempotent")
}

func TestPermissionFromBits(t *testing.T) {
	t.Run("valid bits", func(t *testing.T) {
		p, err := PermissionFromBits((PermissionUseSelf | PermissionUpdateOther).Bits())
		require.NoError(t, err)
		require.Equal(t, PermissionUseSelf|PermissionUpdateOther, p)
	})

	t.Run("zero is valid", func(t *testing.T) {
		p, err := PermissionFromBits(0)
		require.NoError(t, err)
		require.Equal(t, Permission(0), p)
	})

	t.Run("full set is valid", func(t *testing.T) {
		p, err := PermissionFromBits(PermissionAll.Bits())
		require.NoError(t, err)
		require.Equal(t, PermissionAll, p)
	})

	t.Run("unknown high bit fails closed", func(t *testing.T) {
		_, err := PermissionFromBits(1 << 10)
		require.ErrorIs(t, err, ErrCorruptPermissions)
	})

	t.Run("mixed known and unknown bits fail closed", func(t *testing.T) {
		_, err := PermissionFromBits(PermissionUseSelf.Bits() | 1<<42)
		require.ErrorIs(t, err, ErrCorruptPermissions)
	})

	t.Run("negative value fails closed", func(t *testing.T) {
		_, err := PermissionFromBits(-1)
		require.ErrorIs(t, err, ErrCorruptPermissions)
	})
}

func TestPermission_JSON(t *testing.T) {
	p := PermissionUseSelf | PermissionStatusOther

	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.JSONEq(t, `["USE_SELF","STATUS_OTHER"]`, string(data))

	var decoded Permission
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, p, decoded)

	t.Run("empty set is an empty array", func(t *testing.T) {
		data, err := json.Marshal(Permission(0))
		require.NoError(t, err)
		require.JSONEq(t, `[]`, string(data))
	})

	t.Run("unknown name rejected", func(t *testing.T) {
		var p Permission
		err := json.Unmarshal([]byte(`["USE_SELF","WARP"]`), &p)
		require.Error(t, err)
	})
}
