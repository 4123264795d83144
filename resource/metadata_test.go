package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMetadataKey_Valid(t *testing.T) {
	k, err := ParseMetadataKey("rack_position_2")
	assert.NoError(t, err)
	assert.Equal(t, MetadataKey("rack_position_2"), k)
}

func TestParseMetadataKey_RejectsEmpty(t *testing.T) {
	_, err := ParseMetadataKey("")
	assert.Error(t, err)
}

func TestParseMetadataKey_RejectsUppercaseAndSymbols(t *testing.T) {
	cases := []string{"Rack", "rack-position", "rack position", "rack.position"}
	for _, c := range cases {
		_, err := ParseMetadataKey(c)
		assert.Error(t, err, c)
		var cmdErr *CommandError
		assert.ErrorAs(t, err, &cmdErr, c)
		assert.Equal(t, ErrInvalidValue, cmdErr.Code, c)
	}
}
