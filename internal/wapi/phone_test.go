package wapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5512345678901", "5512345678901@c.us"},
		{"+55 (12) 34567-8901", "5512345678901@c.us"},
		{"5512345678901@c.us", "5512345678901@c.us"},
		{"120363025246125244@g.us", "120363025246125244@g.us"},
		{"", "@c.us"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, FormatPhone(tt.in))
		})
	}
}
