package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// HostStatus is one row of `auth status`.
type HostStatus struct {
	Host     string   `json:"host" yaml:"host"`
	URL      string   `json:"url" yaml:"url"`
	LoggedIn bool     `json:"loggedIn" yaml:"loggedIn"`
	Login    string   `json:"login,omitempty" yaml:"login,omitempty"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Storage  string   `json:"storage,omitempty" yaml:"storage,omitempty"`
	Scopes   []string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func WriteStatusTable(w io.Writer, statuses []HostStatus) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "HOST\tSTATUS\tLOGIN")
	for _, s := range statuses {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Host, statusText(s), dash(s.Login))
	}
	_ = tw.Flush()
}

func WriteStatusTableWide(w io.Writer, statuses []HostStatus) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "HOST\tURL\tSTATUS\tLOGIN\tNAME\tSTORAGE\tSCOPES\tERROR")
	for _, s := range statuses {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Host, s.URL, statusText(s), dash(s.Login), dash(s.Name), dash(s.Storage), dash(strings.Join(s.Scopes, ",")), dash(s.Error))
	}
	_ = tw.Flush()
}

// WriteStatus writes statuses in the requested format.
func WriteStatus(w io.Writer, format Format, statuses []HostStatus) error {
	switch format {
	case FormatTable:
		WriteStatusTable(w, statuses)
		return nil
	case FormatWide:
		WriteStatusTableWide(w, statuses)
		return nil
	default:
		return WriteObject(w, format, statuses)
	}
}

func statusText(s HostStatus) string {
	switch {
	case s.LoggedIn:
		return "logged in"
	case s.Error != "":
		return "invalid"
	default:
		return "logged out"
	}
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
