package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"
)

// XMLDeclaration is the exact first line of every generated document.
const XMLDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// EnclosureType is declared for every image enclosure regardless of the
// image's real format.
const EnclosureType = "image/jpeg"

type Generator struct {
	version string
}

func NewGenerator(version string) *Generator {
	return &Generator{version: version}
}

// Run renders channel and items as an RSS 2.0 document. buildTime becomes
// the channel's lastBuildDate.
func (g *Generator) Run(channel Channel, items []Item, buildTime time.Time) string {
	var buf bytes.Buffer

	buf.WriteString(XMLDeclaration)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:media="http://search.yahoo.com/mrss/">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", channel.Description, 4)
	g.writeElement(&buf, "language", channel.Language, 4)

	if channel.SelfURL != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfURL)))
	}

	g.writeElement(&buf, "lastBuildDate", FormatDate(buildTime), 4)
	if g.version != "" {
		g.writeElement(&buf, "generator", "rss-merge/"+g.version, 4)
	}

	for _, item := range items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String()
}

func (g *Generator) writeItem(buf *bytes.Buffer, item Item) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(item.GUID))
	buf.WriteString("</guid>\n")

	if item.Title == "" {
		buf.WriteString("      <title></title>\n")
	} else {
		g.writeElement(buf, "title", item.Title, 6)
	}

	g.writeElement(buf, "link", item.Link, 6)

	buf.WriteString("      <description><![CDATA[")
	buf.WriteString(escapeCDATA(item.HTML))
	buf.WriteString("]]></description>\n")

	g.writeElement(buf, "pubDate", FormatDate(item.PublishedAt), 6)
	g.writeElement(buf, "category", item.Category, 6)

	if item.ImageURL != "" {
		buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"%s\" />\n",
			html.EscapeString(item.ImageURL), EnclosureType))
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

// escapeCDATA drops characters XML does not allow anywhere, replaces
// invalid UTF-8 and splits any "]]>" so the text cannot terminate the
// section.
func escapeCDATA(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, s)
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}

// isXMLChar reports whether r matches the Char production of XML 1.0.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
