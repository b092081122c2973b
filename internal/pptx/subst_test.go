package pptx

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestReplaceInRunsBasic(t *testing.T) {
	raw := []byte(`<p:sp><a:t>Hello {{NAME}}</a:t><a:t>{{NAME}} and {{ROLE}}</a:t></p:sp>`)
	got := string(replaceInRuns(raw, map[string]string{
		"{{NAME}}": "Ada",
		"{{ROLE}}": "Engineer",
	}))
	want := `<p:sp><a:t>Hello Ada</a:t><a:t>Ada and Engineer</a:t></p:sp>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReplaceInRunsEscaping(t *testing.T) {
	// Token text arrives escaped inside the run; replacement values must be
	// re-escaped on the way back in. The escaper writes quotes as numeric
	// references.
	raw := []byte(`<a:t>A &amp; B {{X}}</a:t>`)
	got := string(replaceInRuns(raw, map[string]string{"{{X}}": `<tag> & "q"`}))
	if strings.Contains(got, "<tag>") {
		t.Fatalf("replacement value not escaped: %q", got)
	}
	if !strings.Contains(got, "&lt;tag&gt; &amp; &#34;q&#34;") {
		t.Errorf("unexpected escaped output: %q", got)
	}
	if !strings.Contains(got, "A &amp; B") {
		t.Errorf("pre-existing escaped text damaged: %q", got)
	}
}

func TestReplaceInRunsKeepsTokenFreeReferences(t *testing.T) {
	// Runs written by this package carry numeric references for quotes and
	// whitespace; substitution over token-free runs must be an exact identity.
	raw := `<a:t>say &#34;hello&#34;</a:t><a:t>tab&#x9;end</a:t><a:t>it&#39;s &amp;co</a:t>`
	got := string(replaceInRuns([]byte(raw), map[string]string{"{{X}}": "y"}))
	if got != raw {
		t.Errorf("token-free runs changed:\n got %q\nwant %q", got, raw)
	}
}

func TestXMLUnescapeReferences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"&lt;&gt;&amp;&quot;&apos;", `<>&"'`},
		{"&#34;q&#34;", `"q"`},
		{"&#x41;&#XA;", "A\n"},
		{"dangling & here", "dangling & here"},
		{"&unknown; stays", "&unknown; stays"},
		{"&#; &#x;", "&#; &#x;"},
	}
	for _, c := range cases {
		if got := xmlUnescape(c.in); got != c.want {
			t.Errorf("xmlUnescape(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestReplaceInRunsLeavesMarkupAlone(t *testing.T) {
	raw := []byte(`<a:rPr sz="{{NOT_A_RUN}}"/><a:t>real {{T}}</a:t>`)
	got := string(replaceInRuns(raw, map[string]string{"{{NOT_A_RUN}}": "x", "{{T}}": "y"}))
	if !strings.Contains(got, `sz="{{NOT_A_RUN}}"`) {
		t.Errorf("attribute text outside runs was modified: %q", got)
	}
	if !strings.Contains(got, "<a:t>real y</a:t>") {
		t.Errorf("run text not replaced: %q", got)
	}
}

func TestReplaceTextOnBuiltSlides(t *testing.T) {
	p := New()
	s, err := p.AddSlide(6)
	if err != nil {
		t.Fatal(err)
	}
	sh := &Shape{Kind: KindTextBox, Left: Inches(1), Top: Inches(1), Width: Inches(4), Height: Inches(1)}
	sh.SetText("Dear {{CUSTOMER}},", Font{})
	s.Shapes = append(s.Shapes, sh)

	ReplaceText(p, map[string]string{"{{CUSTOMER}}": "ACME"})
	if got := sh.Text.Paragraphs[0].Text; got != "Dear ACME," {
		t.Errorf("got %q", got)
	}
}

// genRunText produces run texts that mix alphanumerics with the characters
// the escaper rewrites (quotes, ampersands, angle brackets, whitespace).
func genRunText() gopter.Gen {
	return gopter.CombineGens(
		gen.AlphaString(),
		gen.OneConstOf("", `"`, "'", "&", "<", ">", "\n", "\t", ` & "mix" <t>`),
	).Map(func(vals []interface{}) string {
		return vals[0].(string) + vals[1].(string)
	})
}

// genRunDoc builds a fake slide part from run texts, some of which carry the
// {{TOKEN}} marker.
func genRunDoc() gopter.Gen {
	return gen.SliceOf(
		gopter.CombineGens(genRunText(), gen.Bool()).Map(func(vals []interface{}) string {
			text := vals[0].(string)
			if vals[1].(bool) {
				text += " {{TOKEN}}"
			}
			return text
		}),
	).Map(func(runs []string) string {
		var b strings.Builder
		b.WriteString("<p:sld><p:spTree>")
		for _, r := range runs {
			b.WriteString("<a:t>")
			b.WriteString(xmlEscape(r))
			b.WriteString("</a:t>")
		}
		b.WriteString("</p:spTree></p:sld>")
		return b.String()
	})
}

func TestReplaceInRunsProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("substitution reaches a fixed point when values carry no tokens",
		prop.ForAll(func(doc string, value string) bool {
			repl := map[string]string{"{{TOKEN}}": value}
			once := replaceInRuns([]byte(doc), repl)
			twice := replaceInRuns(once, repl)
			return string(once) == string(twice)
		}, genRunDoc(), genRunText()),
	)

	properties.Property("substitution leaves token-free documents unchanged",
		prop.ForAll(func(doc string) bool {
			clean := strings.ReplaceAll(doc, "{{TOKEN}}", "")
			out := replaceInRuns([]byte(clean), map[string]string{"{{TOKEN}}": "zzz"})
			return string(out) == clean
		}, genRunDoc()),
	)

	properties.TestingRun(t)
}
