package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const DefaultNoteTemplate = `{{ .App }} on {{ .Hostname }}`

var machineIDFiles = []string{"/etc/machine-id", "/var/lib/dbus/machine-id"}

// NoteData is available to the note template.
type NoteData struct {
	App       string
	Version   string
	Hostname  string
	MachineID string
	Host      string
}

// Identity describes the machine an authorization is created from.
type Identity struct {
	Note        string
	Fingerprint string
}

// RenderNote executes tmpl with sprig functions available.
func RenderNote(tmpl string, data NoteData) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultNoteTemplate
	}
	parsed, err := template.New("note").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("invalid note template: %w", err)
	}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render note: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Fingerprint is stable per application and machine.
func Fingerprint(app, machineID, hostname string) string {
	sum := sha256.Sum256([]byte(app + ":" + machineID + ":" + hostname))
	return hex.EncodeToString(sum[:])
}

// MachineID reads the systemd machine id, or returns "" where there is none.
func MachineID() string {
	for _, path := range machineIDFiles {
		if content, err := os.ReadFile(path); err == nil {
			if id := strings.TrimSpace(string(content)); id != "" {
				return id
			}
		}
	}
	return ""
}

// BuildIdentity renders the note and fingerprint for the local machine.
func BuildIdentity(tmpl string, data NoteData) (Identity, error) {
	if data.Hostname == "" {
		data.Hostname, _ = os.Hostname()
	}
	if data.MachineID == "" {
		data.MachineID = MachineID()
	}
	note, err := RenderNote(tmpl, data)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Note: note, Fingerprint: Fingerprint(data.App, data.MachineID, data.Hostname)}, nil
}
