// Package markdown converts article Markdown to HTML: Simple mirrors the
// lightweight converter the site pages use, Render is a full CommonMark/GFM
// pipeline with sanitizing.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	fenceRe      = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*\n]+)\*`)
	placeholder  = regexp.MustCompile("\x00(\\d+)\x00")
)

const (
	preClass    = "code-block bg-gray-900 text-white p-4 rounded-lg my-4 overflow-x-auto"
	codeClass   = "bg-gray-200 text-sm p-1 rounded"
	strongClass = "font-semibold"
	liClass     = "ml-5 list-disc"
)

// Simple converts fenced code, **bold**, *italic*, `code` and "* " list
// items. Text outside code is not escaped; newlines outside <pre> become
// <br>.
func Simple(text string) string {
	var b strings.Builder
	last := 0
	for _, m := range fenceRe.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(simpleText(text[last:m[0]]))
		lang := ""
		if m[2] >= 0 {
			lang = text[m[2]:m[3]]
		}
		b.WriteString(codeBlock(lang, text[m[4]:m[5]]))
		last = m[1]
	}
	b.WriteString(simpleText(text[last:]))
	return b.String()
}

func codeBlock(lang, code string) string {
	code = html.EscapeString(code)
	if lang != "" {
		return fmt.Sprintf(`<pre class="%s"><code class="language-%s">%s</code></pre>`, preClass, lang, code)
	}
	return fmt.Sprintf(`<pre class="%s"><code>%s</code></pre>`, preClass, code)
}

func simpleText(seg string) string {
	var out strings.Builder
	inList := false
	for i, line := range strings.Split(seg, "\n") {
		if item, ok := strings.CutPrefix(line, "* "); ok {
			if !inList {
				out.WriteString("<ul>")
				inList = true
			}
			fmt.Fprintf(&out, `<li class="%s">%s</li>`, liClass, simpleInline(item))
			continue
		}
		if inList {
			out.WriteString("</ul>")
			inList = false
		} else if i > 0 {
			out.WriteString("<br>")
		}
		out.WriteString(simpleInline(line))
	}
	if inList {
		out.WriteString("</ul>")
	}
	return out.String()
}

// simpleInline formats one line; inline code is set aside first so its
// content is not touched by the emphasis rules.
func simpleInline(line string) string {
	var codes []string
	line = inlineCodeRe.ReplaceAllStringFunc(line, func(m string) string {
		codes = append(codes, html.EscapeString(m[1:len(m)-1]))
		return "\x00" + strconv.Itoa(len(codes)-1) + "\x00"
	})
	line = boldRe.ReplaceAllString(line, `<strong class="`+strongClass+`">$1</strong>`)
	line = italicRe.ReplaceAllString(line, `<em>$1</em>`)
	return placeholder.ReplaceAllStringFunc(line, func(m string) string {
		i, _ := strconv.Atoi(m[1 : len(m)-1])
		return `<code class="` + codeClass + `">` + codes[i] + `</code>`
	})
}

var (
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy = bluemonday.UGCPolicy()
)

// Render converts GitHub-flavoured Markdown and strips anything unsafe.
func Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown: convert: %w", err)
	}
	return policy.SanitizeBytes(buf.Bytes()), nil
}
