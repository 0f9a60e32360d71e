package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  Role
		ok    bool
	}{
		{value: "super_admin", want: SuperAdmin, ok: true},
		{value: "secretario", want: Secretario, ok: true},
		{value: "chefe_nucleo", want: ChefeNucleo, ok: true},
		{value: "admin", ok: false},
		{value: "SUPER_ADMIN", ok: false},
		{value: "", ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.value)
			if !tt.ok {
				require.Error(t, err)
				var invalid *InvalidRoleError
				assert.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SuperAdmin.Valid())
	assert.False(t, Role("bishop").Valid())
}
