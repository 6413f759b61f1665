package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsernameFor(t *testing.T) {
	tests := []struct {
		name string
		acc  accountRecord
		want string
	}{
		{
			name: "display name is slugged",
			acc:  accountRecord{ID: "abc123-rest", DisplayName: ptr("Roast King 👑")},
			want: "roast-king-abc123",
		},
		{
			name: "falls back to email local part",
			acc:  accountRecord{ID: "def456-rest", Email: "jane.doe@example.com"},
			want: "jane-doe-def456",
		},
		{
			name: "empty everything still yields a handle",
			acc:  accountRecord{ID: "xyz"},
			want: "user-xyz",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usernameFor(tt.acc))
		})
	}
}

func ptr(s string) *string { return &s }
