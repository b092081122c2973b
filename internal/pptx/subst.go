package pptx

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ReplaceText replaces literal token occurrences (e.g. "{{NAME}}") in every
// text run of every slide. Replacement is run-local: tokens split across run
// boundaries by formatting are not matched.
func ReplaceText(p *Presentation, replacements map[string]string) {
	for _, s := range p.slides {
		if s.raw != nil {
			s.raw = replaceInRuns(s.raw, replacements)
			continue
		}
		for _, sh := range s.Shapes {
			if sh.Text == nil {
				continue
			}
			for i := range sh.Text.Paragraphs {
				for token, value := range replacements {
					sh.Text.Paragraphs[i].Text = strings.ReplaceAll(sh.Text.Paragraphs[i].Text, token, value)
				}
			}
		}
	}
}

// replaceInRuns rewrites the content of every <a:t> element in a raw slide
// part. Tokens are matched against the unescaped run text; replacement values
// are re-escaped on the way back in.
func replaceInRuns(raw []byte, replacements map[string]string) []byte {
	const openTag, closeTag = "<a:t>", "</a:t>"
	s := string(raw)
	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.Index(s, openTag)
		if i < 0 {
			b.WriteString(s)
			break
		}
		j := strings.Index(s[i:], closeTag)
		if j < 0 {
			b.WriteString(s)
			break
		}
		j += i
		b.WriteString(s[:i+len(openTag)])
		text := xmlUnescape(s[i+len(openTag) : j])
		for token, value := range replacements {
			text = strings.ReplaceAll(text, token, value)
		}
		b.WriteString(xmlEscape(text))
		b.WriteString(closeTag)
		s = s[j+len(closeTag):]
	}
	return []byte(b.String())
}

// xmlUnescape decodes the named entities and the decimal/hex character
// references the escaper can emit, so escape(unescape(x)) == x for any run
// content this package or standard tooling wrote. Unrecognized references are
// left verbatim.
func xmlUnescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := strings.IndexByte(s[i:], ';')
		if j < 0 {
			b.WriteString(s[i:])
			break
		}
		if dec, ok := decodeXMLRef(s[i+1 : i+j]); ok {
			b.WriteString(dec)
			i += j + 1
			continue
		}
		b.WriteByte('&')
		i++
	}
	return b.String()
}

func decodeXMLRef(ref string) (string, bool) {
	switch ref {
	case "lt":
		return "<", true
	case "gt":
		return ">", true
	case "amp":
		return "&", true
	case "quot":
		return `"`, true
	case "apos":
		return "'", true
	}
	if len(ref) < 2 || ref[0] != '#' {
		return "", false
	}
	num, base := ref[1:], 10
	if num[0] == 'x' || num[0] == 'X' {
		num, base = num[1:], 16
	}
	n, err := strconv.ParseInt(num, base, 32)
	if err != nil || n <= 0 || n > utf8.MaxRune {
		return "", false
	}
	return string(rune(n)), true
}
