package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Mailer delivers a rendered brief. Transport is pluggable; the
// shipped implementation writes to a local directory.
type Mailer interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// FileMailer writes briefs to a directory instead of sending them.
type FileMailer struct {
	Dir string

	lastPath string
}

// Send writes the brief as an HTML file named from the subject and a
// timestamp, and returns the path in LastPath.
func (m *FileMailer) Send(_ context.Context, subject, htmlBody string) error {
	dir := m.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("report: creating output directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.html", slug(subject), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(htmlBody), 0644); err != nil {
		return fmt.Errorf("report: writing brief: %w", err)
	}
	m.lastPath = path
	return nil
}

// LastPath returns the file written by the most recent Send.
func (m *FileMailer) LastPath() string {
	return m.lastPath
}

// slug turns a subject line into a safe filename fragment.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "brief"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "brief"
	}
	return out
}
