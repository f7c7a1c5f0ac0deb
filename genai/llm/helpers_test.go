package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewToolCall(t *testing.T) {
	cases := []struct {
		desc string
		args map[string]interface{}
	}{
		{desc: "no args", args: map[string]interface{}{}},
		{desc: "with args", args: map[string]interface{}{"city": "Paris", "units": "C"}},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			input := make(map[string]interface{}, len(tc.args))
			for k, v := range tc.args {
				input[k] = v
			}
			tl := NewToolCall("", "toolName", input, "")
			assert.NotEmpty(t, tl.ID)
			assert.EqualValues(t, "toolName", tl.Name)
			assert.EqualValues(t, tc.args, tl.Arguments)
		})
	}
}

func TestNewToolCall_PreservesExplicitID(t *testing.T) {
	tl := NewToolCall("id-123", "toolName", map[string]interface{}{"foo": "bar"}, "done")
	assert.EqualValues(t, "id-123", tl.ID)
	assert.EqualValues(t, "done", tl.Result)
}

func TestTextMessageHelpers(t *testing.T) {
	cases := []struct {
		desc   string
		msg    Message
		exRole MessageRole
	}{
		{desc: "user role", msg: NewUserMessage("hello"), exRole: RoleUser},
		{desc: "system role", msg: NewSystemMessage("hello"), exRole: RoleSystem},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.EqualValues(t, tc.exRole, tc.msg.Role)
			assert.Len(t, tc.msg.Items, 1)
			assert.EqualValues(t, "hello", tc.msg.Items[0].Data)
			assert.EqualValues(t, "hello", tc.msg.Content)
		})
	}
}

func TestNewTextContent(t *testing.T) {
	item := NewTextContent("evidence preview")
	assert.EqualValues(t, ContentTypeText, item.Type)
	assert.EqualValues(t, SourceRaw, item.Source)
	assert.EqualValues(t, "evidence preview", item.Data)
	assert.EqualValues(t, "evidence preview", item.Text)
}
