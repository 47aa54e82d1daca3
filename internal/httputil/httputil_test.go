package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMethod(t *testing.T) {
	for _, m := range []string{"get", "GET", "Patch", "trace"} {
		assert.True(t, IsMethod(m), m)
	}
	for _, m := range []string{"parameters", "x-internal", "$ref", ""} {
		assert.False(t, IsMethod(m), m)
	}
}

func TestValidateStatusCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"default", true},
		{"200", true},
		{"404", true},
		{"599", true},
		{"2XX", true},
		{"5XX", true},
		{"6XX", false},
		{"099", false},
		{"600", false},
		{"x-extension", false},
		{"20", false},
		{"abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateStatusCode(tt.code))
		})
	}
}

func TestMediaKinds(t *testing.T) {
	assert.True(t, IsJSON("application/json"))
	assert.True(t, IsJSON("application/vnd.api+json; charset=utf-8"))
	assert.False(t, IsJSON("text/plain"))

	assert.True(t, IsForm(MediaForm))
	assert.True(t, IsForm("multipart/form-data; boundary=x"))
	assert.False(t, IsForm(MediaJSON))
}
