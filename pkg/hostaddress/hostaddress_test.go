package hostaddress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantWeb string
		wantAPI string
		dotCom  bool
		wantErr bool
	}{
		{name: "github.com", raw: "https://github.com", wantWeb: "https://github.com/", wantAPI: "https://api.github.com/", dotCom: true},
		{name: "api host maps to dotcom", raw: "https://api.github.com/", wantWeb: "https://github.com/", wantAPI: "https://api.github.com/", dotCom: true},
		{name: "no scheme", raw: "github.com", wantWeb: "https://github.com/", wantAPI: "https://api.github.com/", dotCom: true},
		{name: "enterprise", raw: "https://GHE.example.com/some/path", wantWeb: "https://ghe.example.com/", wantAPI: "https://ghe.example.com/api/v3/"},
		{name: "enterprise with port", raw: "http://127.0.0.1:8080", wantWeb: "http://127.0.0.1:8080/", wantAPI: "http://127.0.0.1:8080/api/v3/"},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "bad scheme", raw: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Create(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWeb, h.WebURL())
			assert.Equal(t, tt.wantAPI, h.APIBaseURL())
			assert.Equal(t, tt.dotCom, h.IsGitHubDotCom())
		})
	}
}

func TestHostAddressEquality(t *testing.T) {
	a := MustCreate("https://ghe.example.com")
	b := MustCreate("ghe.example.com/")
	assert.Equal(t, a, b)
	assert.True(t, a == b)
	assert.NotEqual(t, a, GitHubDotCom)
	assert.Equal(t, "ghe.example.com", a.Title())
	assert.Equal(t, "github.com", GitHubDotCom.String())
	assert.True(t, HostAddress{}.IsZero())
}

func TestMustCreatePanics(t *testing.T) {
	assert.Panics(t, func() { MustCreate("") })
}
