package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNote(t *testing.T) {
	data := NoteData{App: "ghlogin", Version: "1.2.3", Hostname: "DevBox", Host: "github.com"}

	tests := []struct {
		name    string
		tmpl    string
		want    string
		wantErr bool
	}{
		{name: "default template", tmpl: "", want: "ghlogin on DevBox"},
		{name: "sprig functions", tmpl: "{{ .App | upper }} {{ .Version }} on {{ .Hostname | lower }}", want: "GHLOGIN 1.2.3 on devbox"},
		{name: "host field", tmpl: "{{ .App }} for {{ .Host }}", want: "ghlogin for github.com"},
		{name: "parse error", tmpl: "{{ .App ", wantErr: true},
		{name: "unknown field", tmpl: "{{ .Nope }}", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderNote(tt.tmpl, data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("ghlogin", "machine", "host")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Fingerprint("ghlogin", "machine", "host"))
	assert.NotEqual(t, a, Fingerprint("ghlogin", "machine", "other"))
}

func TestBuildIdentity(t *testing.T) {
	id, err := BuildIdentity("", NoteData{App: "ghlogin", Hostname: "box", MachineID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "ghlogin on box", id.Note)
	assert.Equal(t, Fingerprint("ghlogin", "m1", "box"), id.Fingerprint)
}
