package stinger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgFromValue(t *testing.T) {
	v := compile(t, `{type: "integer", description: "how many"}`)

	arg, err := ArgFromValue("count", v)
	require.NoError(t, err)

	assert.Equal(t, "count", arg.Name())
	assert.Equal(t, Integer, arg.Type())
	desc, ok := arg.Description()
	assert.True(t, ok)
	assert.Equal(t, "how many", desc)
}

func TestArgFromValueNoDescription(t *testing.T) {
	arg, err := ArgFromValue("on", compile(t, `{type: "Boolean"}`))
	require.NoError(t, err)

	assert.Equal(t, Boolean, arg.Type())
	_, ok := arg.Description()
	assert.False(t, ok)
}

func TestArgFromValueNonStringDescriptionIgnored(t *testing.T) {
	for _, src := range []string{
		`{type: "string", description: 5}`,
		`{type: "string", description: null}`,
		`{type: "string", description: {text: "x"}}`,
	} {
		t.Run(src, func(t *testing.T) {
			arg, err := ArgFromValue("name", compile(t, src))
			require.NoError(t, err)
			_, ok := arg.Description()
			assert.False(t, ok)
		})
	}
}

func TestArgFromValueMissingType(t *testing.T) {
	_, err := ArgFromValue("x", compile(t, `{description: "no type"}`))

	require.Error(t, err)
	assert.Equal(t, CodeMissingField, CodeOf(err))
	assert.Contains(t, err.Error(), "'type'")
}

func TestArgFromValueUnknownType(t *testing.T) {
	_, err := ArgFromValue("x", compile(t, `{type: "decimal"}`))

	require.Error(t, err)
	assert.Equal(t, CodeUnknownArgType, CodeOf(err))
	assert.Contains(t, err.Error(), "decimal")
	assert.Contains(t, err.Error(), "x.type")
}

func TestArgFromValueNonStringType(t *testing.T) {
	_, err := ArgFromValue("x", compile(t, `{type: 3}`))

	require.Error(t, err)
	assert.Equal(t, CodeUnknownArgType, CodeOf(err))
}

func TestArgFromValueIncompleteType(t *testing.T) {
	_, err := ArgFromValue("x", compile(t, `{type: string}`))

	require.Error(t, err)
	assert.Equal(t, CodeUnknownArgType, CodeOf(err))
	assert.Contains(t, err.Error(), "concrete string token")
}

func TestArgFromValueNotMapping(t *testing.T) {
	v := compile(t, `{a: "integer"}`)
	_, err := ArgFromValue("a", lookup(v, "a"))

	require.Error(t, err)
	assert.Equal(t, CodeInvalidArgStructure, CodeOf(err))
}

func TestArgWithDescriptionReturnsCopy(t *testing.T) {
	base := NewArg("level", Float)
	described := base.WithDescription("dimmer level")

	_, ok := base.Description()
	assert.False(t, ok, "original arg must be unchanged")

	desc, ok := described.Description()
	assert.True(t, ok)
	assert.Equal(t, "dimmer level", desc)
	assert.Equal(t, "level", described.Name())
	assert.Equal(t, Float, described.Type())
}
