package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Holiday", "holiday"},
		{"My Holiday Photo", "my-holiday-photo"},
		{"Cançó d'estiu", "canco-d-estiu"},
		{"Niño  año", "nino-ano"},
		{"  spaced  ", "spaced"},
		{"IMG_0001", "img_0001"},
		{"über.straße", "uber.stra-e"},
		{"日本語", ""},
		{"", ""},
		{"--weird--", "weird"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}
