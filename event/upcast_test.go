package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUpcastToVersion_ChainComposesForward exercises §8 Scenario F: a v1
// record upcast through a v1->v2->v3 chain ends at v3 with both
// transformations applied.
func TestUpcastToVersion_ChainComposesForward(t *testing.T) {
	reg := NewUpcasterRegistry()
	reg.Register("ResourceRegistered", 1, func(fields map[string]any) (map[string]any, error) {
		fields["tags"] = []any{}
		return fields, nil
	})
	reg.Register("ResourceRegistered", 2, func(fields map[string]any) (map[string]any, error) {
		v, err := RequireField(Zero, "ResourceRegistered", 2, 3, fields, "hostname")
		if err != nil {
			return nil, err
		}
		fields["fqdn"] = v
		delete(fields, "hostname")
		return fields, nil
	})

	v1 := map[string]any{"hostname": "h1.example.com"}

	out, err := reg.UpcastToVersion(Zero, "ResourceRegistered", v1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{}, out["tags"])
	assert.Equal(t, "h1.example.com", out["fqdn"])
	_, hasHostname := out["hostname"]
	assert.False(t, hasHostname)
}

func TestUpcastToVersion_NoOpWhenAlreadyCurrent(t *testing.T) {
	reg := NewUpcasterRegistry()
	fields := map[string]any{"a": 1}
	out, err := reg.UpcastToVersion(Zero, "X", fields, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, fields, out)
}

func TestUpcastToVersion_RejectsBackward(t *testing.T) {
	reg := NewUpcasterRegistry()
	_, err := reg.UpcastToVersion(Zero, "X", map[string]any{}, 3, 1)
	require.Error(t, err)
	upErr, ok := err.(*UpcastError)
	require.True(t, ok)
	assert.Equal(t, UpcastUnsupportedVersion, upErr.Kind)
}

func TestUpcastToVersion_MissingUpcasterIsUnsupportedVersion(t *testing.T) {
	reg := NewUpcasterRegistry()
	_, err := reg.UpcastToVersion(Zero, "X", map[string]any{}, 1, 2)
	require.Error(t, err)
	upErr, ok := err.(*UpcastError)
	require.True(t, ok)
	assert.Equal(t, UpcastUnsupportedVersion, upErr.Kind)
}

func TestUpcastToVersion_DoesNotMutateInput(t *testing.T) {
	reg := NewUpcasterRegistry()
	reg.Register("X", 1, func(fields map[string]any) (map[string]any, error) {
		fields["added"] = true
		return fields, nil
	})
	original := map[string]any{"a": 1}
	_, err := reg.UpcastToVersion(Zero, "X", original, 1, 2)
	require.NoError(t, err)
	_, hasAdded := original["added"]
	assert.False(t, hasAdded, "upcasting must not mutate the caller's input map")
}
