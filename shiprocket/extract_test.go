package shiprocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFieldShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		want string
	}{
		{
			name: "top level",
			doc:  map[string]any{"awb_code": "AWB1"},
			want: "AWB1",
		},
		{
			name: "response.data",
			doc: map[string]any{
				"response": map[string]any{
					"data": map[string]any{"awb_code": "AWB2"},
				},
			},
			want: "AWB2",
		},
		{
			name: "data",
			doc:  map[string]any{"data": map[string]any{"awb_code": "AWB3"}},
			want: "AWB3",
		},
		{
			name: "response",
			doc:  map[string]any{"response": map[string]any{"awb_code": "AWB4"}},
			want: "AWB4",
		},
		{
			name: "numeric value",
			doc:  map[string]any{"awb_code": float64(77712345)},
			want: "77712345",
		},
		{
			name: "missing",
			doc:  map[string]any{"data": map[string]any{"courier_name": "X"}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractField(tt.doc, "awb_code"))
		})
	}
}

func TestExtractFieldTopLevelWins(t *testing.T) {
	doc := map[string]any{
		"awb_code": "TOP",
		"data":     map[string]any{"awb_code": "NESTED"},
	}
	assert.Equal(t, "TOP", extractField(doc, "awb_code"))
}

func TestAWBFromOrderDoc(t *testing.T) {
	doc := map[string]any{
		"data": map[string]any{
			"shipments": []any{
				map[string]any{"awb": "AWB9"},
			},
		},
	}
	assert.Equal(t, "AWB9", AWBFromOrderDoc(doc))

	assert.Equal(t, "", AWBFromOrderDoc(map[string]any{}))
	assert.Equal(t, "", AWBFromOrderDoc(map[string]any{
		"data": map[string]any{"shipments": []any{}},
	}))
}

func TestAWBFromOrderDocPrefersAWBCode(t *testing.T) {
	doc := map[string]any{
		"data": map[string]any{
			"shipments": []any{
				map[string]any{"awb_code": "CODE", "awb": "PLAIN"},
			},
		},
	}
	assert.Equal(t, "CODE", AWBFromOrderDoc(doc))
}
