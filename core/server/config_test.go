package server_test

import (
	"path/filepath"
	"testing"

	"item-mirror/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsProtected(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"WithToken", "secret", true},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Token: tt.token}
			assert.Equal(t, tt.want, c.IsProtected())
		})
	}
}

func TestConfig_PublishDir(t *testing.T) {
	c := server.Config{RepoDir: "/repo", PublishPath: "merged"}
	assert.Equal(t, filepath.Join("/repo", "merged"), c.PublishDir())
}
