package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstJSONArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[1, 2, 3]`, `[1, 2, 3]`},
		{"array with prose around", `Here are the results: [{"name":"a"}] hope this helps`, `[{"name":"a"}]`},
		{"nested arrays", `x [[1],[2]] y`, `[[1],[2]]`},
		{"bracket inside string", `[{"reason":"invests in [deep] tech"}]`, `[{"reason":"invests in [deep] tech"}]`},
		{"escaped quote inside string", `[{"name":"a \"b\" c"}]`, `[{"name":"a \"b\" c"}]`},
		{"fenced block", "```json\n[{\"name\":\"a\"}]\n```", `[{"name":"a"}]`},
		{"no array", `no structured data here`, ``},
		{"unbalanced", `[1, 2`, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstJSONArray(tt.in))
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"object after prose", `Profile below.{"name":"x","score":80} Sources: [1]`, `{"name":"x","score":80}`},
		{"nested", `{"a":{"b":1}}`, `{"a":{"b":1}}`},
		{"brace in string", `{"thesis":"founders {not} tourists"}`, `{"thesis":"founders {not} tourists"}`},
		{"none", `plain text`, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstJSONObject(tt.in))
		})
	}
}
