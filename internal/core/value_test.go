package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue_KeepsObjectOrder(t *testing.T) {
	v, err := ParseValue([]byte(`{"zeta": 1, "alpha": "https://x/y", "mid": [true, null]}`))
	require.NoError(t, err)

	require.Equal(t, KindObject, v.Kind())
	members := v.Members()
	require.Len(t, members, 3)
	assert.Equal(t, "zeta", members[0].Key)
	assert.Equal(t, "alpha", members[1].Key)
	assert.Equal(t, "mid", members[2].Key)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"https://x/y","mid":[true,null]}`, string(raw))
}

func TestParseValue_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated object", `{"a": 1`},
		{"trailing data", `{} {}`},
		{"bare word", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseValue([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseValue_EmptyInputIsNull(t *testing.T) {
	v, err := ParseValue(nil)
	require.NoError(t, err)
	assert.Equal(t, KindNull, v.Kind())
	assert.True(t, v.Empty())
}

func TestValue_Empty(t *testing.T) {
	tests := []struct {
		input string
		empty bool
	}{
		{`null`, true},
		{`{}`, true},
		{`[]`, true},
		{`"https://x"`, true},
		{`42`, true},
		{`{"a": null}`, false},
		{`["https://x"]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseValue([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.empty, v.Empty())
		})
	}
}

func TestValue_Links(t *testing.T) {
	v, err := ParseValue([]byte(`{
		"report": "https://x/y",
		"mirror": "http://m/z",
		"note": "see https://inline",
		"nested": {"deep": "https://skipped"},
		"count": 3
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://x/y", "http://m/z"}, v.Links())

	arr := ArrayValue(StringValue("https://a"), NumberValue("1"), StringValue("ftp://b"))
	assert.Equal(t, []string{"https://a"}, arr.Links())

	assert.Nil(t, Null().Links())
}

func TestValue_PrettyDoesNotEscapeHTML(t *testing.T) {
	v := ObjectValue(Member{Key: "q", Value: StringValue("a<b&c")})
	assert.Equal(t, "{\n  \"q\": \"a<b&c\"\n}", v.Pretty())
}

func TestValue_Get(t *testing.T) {
	v := ObjectValue(
		Member{Key: "a", Value: NumberValue("1")},
		Member{Key: "a", Value: NumberValue("2")},
	)
	got, ok := v.Get("a")
	require.True(t, ok)
	n, _ := got.AsNumber()
	assert.Equal(t, json.Number("1"), n)

	_, ok = v.Get("missing")
	assert.False(t, ok)
}

func TestRun_State(t *testing.T) {
	assert.Equal(t, RunStatePending, Run{}.State())
	assert.Equal(t, RunStateDone, Run{OK: Bool(true)}.State())
	assert.Equal(t, RunStateFailed, Run{OK: Bool(false)}.State())
	assert.True(t, Run{OK: Bool(true)}.Done())
	assert.False(t, Run{OK: Bool(false)}.Done())
	assert.False(t, Run{}.Done())
}
