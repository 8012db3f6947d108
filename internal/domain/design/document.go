// internal/domain/design/document.go
package design

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================
// Design Document
// ============================================================

// Seed range drawn by the DESIGN action (inclusive).
const (
	MinSeed = 1
	MaxSeed = 1024
)

var (
	ErrEmptyDocument = errors.New("design: document is empty")
	ErrInvalidSeed   = errors.New("design: seed out of range")
)

// ValidateSeed checks seed against [MinSeed, MaxSeed].
func ValidateSeed(seed int) error {
	if seed < MinSeed || seed > MaxSeed {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidSeed, seed, MinSeed, MaxSeed)
	}
	return nil
}

// Document は 1 回のデザインセッションで組み立てられた描画用 HTML です。
// 組み立て後は不変。新しいデザインには新しい seed で Assemble し直す。
type Document struct {
	Seed           int    `json:"seed"`
	PackagesScript string `json:"packagesScript"`
	RenderScript   string `json:"renderScript"`
	StyleCSS       string `json:"styleCss"`

	html string
}

// Assemble combines the seed snippet, both script fragments and the style block
// into one self-contained document. Same inputs always give the same bytes.
func Assemble(seed int, packagesScript, renderScript, styleCSS string) Document {
	var b strings.Builder
	b.Grow(len(packagesScript) + len(renderScript) + len(styleCSS) + 160)

	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1"></head><body>`)
	b.WriteString(SeedSnippet(seed))
	b.WriteString("<script>")
	b.WriteString(packagesScript)
	b.WriteString("</script><script>")
	b.WriteString(renderScript)
	b.WriteString("</script><style>")
	b.WriteString(styleCSS)
	b.WriteString("</style></body></html>")

	return Document{
		Seed:           seed,
		PackagesScript: packagesScript,
		RenderScript:   renderScript,
		StyleCSS:       styleCSS,
		html:           b.String(),
	}
}

// SeedSnippet is the only part of a document that depends on the seed.
func SeedSnippet(seed int) string {
	return fmt.Sprintf("<script>let SEED = %d;</script>", seed)
}

// HTML returns the serialized document.
func (d Document) HTML() string { return d.html }

// Bytes returns the serialized document as an upload payload.
func (d Document) Bytes() []byte { return []byte(d.html) }

// IsZero reports whether nothing has been assembled yet.
func (d Document) IsZero() bool { return d.html == "" }

func (d Document) Validate() error {
	if d.IsZero() {
		return ErrEmptyDocument
	}
	return nil
}
