package catering

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/appetiteclub/apt"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultExportBaseURL = "https://catering.local/menus"
	DefaultExportDir     = "exports"

	exportTimestampLayout = "2006-01-02_15-04-05"
	exportHeader          = "==============================\n        CATERING MENU\n==============================\n"
	exportFooter          = "------------------------------\nGenerated by the catering back office\n"
)

// Links builds the share links of a menu. No document is produced; the
// links are deterministic strings derived from the menu id.
type Links struct {
	BaseURL string
}

func NewLinks(baseURL string) Links {
	if baseURL == "" {
		baseURL = DefaultExportBaseURL
	}
	return Links{BaseURL: strings.TrimRight(baseURL, "/")}
}

// PDF returns <base-url>/pdf/<menuID>.pdf
func (l Links) PDF(menuID string) string {
	return l.format("pdf", menuID, "pdf")
}

// Publish returns <base-url>/public/<menuID>.html
func (l Links) Publish(menuID string) string {
	return l.format("public", menuID, "html")
}

func (l Links) format(kind, menuID, ext string) string {
	return fmt.Sprintf("%s/%s/%s.%s", l.BaseURL, kind, menuID, ext)
}

// TextExporter writes a plain-text rendition of a menu to Dir.
type TextExporter struct {
	Dir    string
	now    func() time.Time
	logger apt.Logger
}

func NewTextExporter(dir string, logger apt.Logger) *TextExporter {
	if dir == "" {
		dir = DefaultExportDir
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &TextExporter{
		Dir:    dir,
		now:    time.Now,
		logger: logger,
	}
}

// FileName returns menu_<sanitized-title><timestamp>.txt
func (e *TextExporter) FileName(m *Menu, at time.Time) string {
	return fmt.Sprintf("menu_%s%s.txt", SanitizeTitle(m.Name), at.Format(exportTimestampLayout))
}

// Export writes the menu and returns the path of the created file.
func (e *TextExporter) Export(m *Menu) (string, error) {
	if m == nil {
		return "", fmt.Errorf("%w: menu cannot be nil", ErrInvalidInput)
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create export dir: %w", err)
	}

	path := filepath.Join(e.Dir, e.FileName(m, e.now()))
	if err := os.WriteFile(path, []byte(RenderText(m)), 0o644); err != nil {
		return "", fmt.Errorf("cannot write export file: %w", err)
	}

	e.logger.Info("menu exported", "menu_id", m.ID, "path", path)
	return path, nil
}

// RenderText renders the fixed header, the menu body and the fixed footer.
func RenderText(m *Menu) string {
	var b strings.Builder
	b.WriteString(exportHeader)
	fmt.Fprintf(&b, "Menu: %s\n", m.Name)
	if m.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", m.Description)
	}
	if m.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", m.Notes)
	}
	b.WriteString("\n")

	for _, s := range m.Sections {
		fmt.Fprintf(&b, "%d. %s\n", s.Order, s.Title)
		for _, it := range s.Items {
			fmt.Fprintf(&b, "   - %s", it.Name)
			if it.Note != "" {
				fmt.Fprintf(&b, " (%s)", it.Note)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(exportFooter)
	return b.String()
}

// SanitizeTitle strips diacritics and replaces every character outside
// [A-Za-z0-9] with an underscore.
func SanitizeTitle(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, title)
	if err != nil {
		plain = title
	}

	var b strings.Builder
	for _, r := range plain {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
