package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name        string
		origin      string
		fingerprint string
		want        string
	}{
		{"origin only", "203.0.113.7", "", "203.0.113.7"},
		{"with fingerprint", "203.0.113.7", "a1b2c3", "203.0.113.7:a1b2c3"},
		{"empty fingerprint falls back", "10.0.0.1", "", "10.0.0.1"},
		{"ipv6 origin", "2001:db8::1", "fp", "2001:db8::1:fp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Identifier(tt.origin, tt.fingerprint))
		})
	}
}
