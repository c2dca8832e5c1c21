package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShortID_Valid(t *testing.T) {
	cases := []string{"BRG01", "TOWER02", "ABC1234", "ABCDEF01", "XYZ99"}
	for _, id := range cases {
		p := &Project{ShortID: id}
		assert.NoError(t, p.ValidateShortID(), "should accept %q", id)
	}
}

func TestValidateShortID_Empty(t *testing.T) {
	p := &Project{ShortID: ""}
	err := p.ValidateShortID()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestValidateShortID_Rejects(t *testing.T) {
	for _, id := range []string{"brg01", "AB1", "BRIDGE", "TOOLONGX01"} {
		p := &Project{ShortID: id}
		assert.Error(t, p.ValidateShortID(), "should reject %q", id)
	}
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "BRG01", (&Project{ID: "550e8400-e29b-41d4-a716-446655440000", ShortID: "BRG01"}).DisplayID())
	assert.Equal(t, "550e8400", (&Project{ID: "550e8400-e29b-41d4-a716-446655440000"}).DisplayID())
	assert.Equal(t, "abc", (&Project{ID: "abc"}).DisplayID())
}
