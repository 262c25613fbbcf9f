package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
)

// FingerprintField is the front matter key holding the content fingerprint.
const FingerprintField = mdfp.FingerprintField

// Fingerprint computes the fingerprint of the page's fields (minus the fingerprint
// itself) and body.
func (p *Page) Fingerprint() (string, error) {
	fields := make(map[string]any, len(p.Fields))
	for k, v := range p.Fields {
		if k != FingerprintField {
			fields[k] = v
		}
	}
	fm := ""
	if len(fields) > 0 {
		raw, err := SerializeYAML(fields, "\n")
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(raw), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(p.Body)), nil
}

// Stamp stores the current fingerprint in the page's front matter.
func (p *Page) Stamp() error {
	fp, err := p.Fingerprint()
	if err != nil {
		return err
	}
	p.Fields[FingerprintField] = fp
	p.HasFrontMatter = true
	return nil
}

// Untouched reports whether the page carries a fingerprint that still matches its
// content, i.e. it was generated and nobody edited it since.
func (p *Page) Untouched() bool {
	stored, ok := p.Fields[FingerprintField].(string)
	if !ok || stored == "" {
		return false
	}
	fp, err := p.Fingerprint()
	return err == nil && fp == stored
}
