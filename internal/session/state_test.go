package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	base := State{Version: 1, FooterVisible: Ptr(true), CompactMode: Ptr(false)}
	over := State{FooterVisible: Ptr(false), PreviewVisible: Ptr(true)}

	got := Merge(base, over)
	assert.Equal(t, State{
		Version:        1,
		FooterVisible:  Ptr(false),
		PreviewVisible: Ptr(true),
		CompactMode:    Ptr(false),
	}, got)
}

func TestMerge_Extra(t *testing.T) {
	base := State{Extra: map[string]json.RawMessage{"a": json.RawMessage(`1`), "b": json.RawMessage(`2`)}}
	over := State{Extra: map[string]json.RawMessage{"b": json.RawMessage(`3`)}}

	got := Merge(base, over)
	assert.Equal(t, json.RawMessage(`1`), got.Extra["a"])
	assert.Equal(t, json.RawMessage(`3`), got.Extra["b"])
	// base is untouched.
	assert.Equal(t, json.RawMessage(`2`), base.Extra["b"])
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(nil, true))
	assert.False(t, Bool(nil, false))
	assert.False(t, Bool(Ptr(false), true))
	assert.True(t, Bool(Ptr(true), false))
}

func TestIsZero(t *testing.T) {
	assert.True(t, State{}.IsZero())
	assert.False(t, Default().IsZero())
	assert.False(t, State{CompactMode: Ptr(false)}.IsZero())
}

func TestMarshalJSON_AllKeys(t *testing.T) {
	data, err := json.Marshal(State{Version: 1, CompactMode: Ptr(true)})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": 1,
		"show_hidden_files": null,
		"footer_visible": null,
		"pinned_sidebar_visible": null,
		"preview_visible": null,
		"compact_mode": true
	}`, string(data))
}

func TestMarshalJSON_ExtraNeverShadowsKnown(t *testing.T) {
	st := State{
		Version: 1,
		Extra: map[string]json.RawMessage{
			"footer_visible": json.RawMessage(`true`),
			"zeta":           json.RawMessage(`"z"`),
		},
	}
	data, err := json.Marshal(st)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Nil(t, doc["footer_visible"])
	assert.Equal(t, "z", doc["zeta"])
}

func TestUnmarshalJSON_RejectsNonObject(t *testing.T) {
	var st State
	assert.Error(t, json.Unmarshal([]byte(`[true]`), &st))
	assert.Error(t, json.Unmarshal([]byte(`null`), &st))
}
