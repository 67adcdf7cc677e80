package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		want    ID
		wantErr bool
	}{
		{raw: "airqo", want: "airqo"},
		{raw: "  KCCA ", want: "kcca"},
		{raw: "usembassy_kampala", want: "usembassy_kampala"},
		{raw: "", wantErr: true},
		{raw: "9lives", wantErr: true},
		{raw: "drop table;", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_BlankUsesDefault(t *testing.T) {
	r, err := NewResolver("airqo", nil)
	require.NoError(t, err)

	id, err := r.Resolve("   ")
	require.NoError(t, err)
	assert.Equal(t, ID("airqo"), id)
	assert.True(t, r.IsDefault(id))
	assert.Nil(t, r.Allowed())
}

func TestResolver_Allowlist(t *testing.T) {
	r, err := NewResolver("airqo", []string{"kcca"})
	require.NoError(t, err)

	id, err := r.Resolve("KCCA")
	require.NoError(t, err)
	assert.Equal(t, ID("kcca"), id)

	_, err = r.Resolve("nema")
	assert.True(t, errors.Is(err, ErrNotAllowed))

	assert.Equal(t, []ID{"airqo", "kcca"}, r.Allowed())
}

func TestResolver_InvalidDefault(t *testing.T) {
	_, err := NewResolver("", nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithContext(context.Background(), MustParse("kcca"))
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, ID("kcca"), id)
}
