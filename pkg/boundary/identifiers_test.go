package boundary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateOrganizationID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		id      string
		wantErr string
	}{
		{name: "empty", id: "", wantErr: "Organization ID is required"},
		{name: "whitespace only", id: "   \t", wantErr: "Organization ID is required"},
		{name: "two characters", id: "ab", wantErr: "Organization ID must be at least 3 characters"},
		{name: "padded short id", id: " ab ", wantErr: "Organization ID must be at least 3 characters"},
		{name: "exactly three characters", id: "abc"},
		{name: "exactly fifty characters", id: strings.Repeat("a", 50)},
		{name: "fifty one characters", id: strings.Repeat("a", 51), wantErr: "Organization ID must be 50 characters or less"},
		{name: "inner space", id: "org 1", wantErr: "Organization ID must contain only letters, numbers, hyphens, and underscores"},
		{name: "padded valid id fails charset", id: " org-1 ", wantErr: "Organization ID must contain only letters, numbers, hyphens, and underscores"},
		{name: "punctuation", id: "org!1", wantErr: "Organization ID must contain only letters, numbers, hyphens, and underscores"},
		{name: "non ascii", id: "орг-1", wantErr: "Organization ID must contain only letters, numbers, hyphens, and underscores"},
		{name: "hyphens and underscores", id: "Org_1-test"},
		{name: "uuid shaped", id: "123e4567-e89b-12d3-a456-426614174000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateOrganizationID(tc.id)
			if tc.wantErr == "" {
				require.True(t, res.Valid)
				require.Empty(t, res.Error)
				return
			}
			require.False(t, res.Valid)
			require.Equal(t, tc.wantErr, res.Error)
			require.Empty(t, res.Code)
		})
	}
}

func TestValidateUserID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		id      string
		wantErr string
	}{
		{name: "empty", id: "", wantErr: "User ID is required"},
		{name: "two characters", id: "u1", wantErr: "User ID must be at least 3 characters"},
		{name: "exactly three characters", id: "u-1"},
		{name: "exactly fifty characters", id: strings.Repeat("u", 50)},
		{name: "too long", id: strings.Repeat("u", 51), wantErr: "User ID must be 50 characters or less"},
		{name: "invalid characters", id: "user@example", wantErr: "User ID must contain only letters, numbers, hyphens, and underscores"},
		{name: "valid", id: "user_123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateUserID(tc.id)
			if tc.wantErr == "" {
				require.True(t, res.Valid)
				require.Empty(t, res.Error)
				return
			}
			require.False(t, res.Valid)
			require.Equal(t, tc.wantErr, res.Error)
		})
	}
}

func TestIdentifierValidators_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "ab", "org-1", strings.Repeat("x", 51), "bad id", "valid_id-123"}
	for _, id := range inputs {
		first := ValidateOrganizationID(id)
		second := ValidateOrganizationID(id)
		require.Equal(t, first, second, "id %q", id)

		firstUser := ValidateUserID(id)
		secondUser := ValidateUserID(id)
		require.Equal(t, firstUser, secondUser, "id %q", id)
	}
}
