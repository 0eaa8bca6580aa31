// Package extract turns fetched HTML into readable text and raw link targets.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// boilerplateSelector matches elements that never carry main content.
const boilerplateSelector = "script, style, noscript, nav, header, footer, aside, form, iframe, svg, template"

// mainContentSelectors are tried in order; the first match becomes the root.
var mainContentSelectors = []string{"article", "main", "[role='main']", "#content"}

// Extractor implements llmstxt.TextExtractor and llmstxt.LinkParser.
type Extractor struct {
	conv *converter.Converter
}

// New builds an Extractor that renders main content as Markdown, tables included.
func New() *Extractor {
	return &Extractor{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Text returns the main readable content of body. Comments and page chrome
// are dropped. An empty string means nothing usable was found.
func (e *Extractor) Text(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	for _, n := range doc.Nodes {
		stripComments(n)
	}
	doc.Find(boilerplateSelector).Remove()

	root := mainContent(doc)
	fragment, err := goquery.OuterHtml(root)
	if err != nil {
		return "", fmt.Errorf("render main content: %w", err)
	}
	markdown, err := e.conv.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// Links returns every non-empty href on the page, in document order.
func (e *Extractor) Links(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href != "" {
			links = append(links, href)
		}
	})
	return links, nil
}

func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, sel := range mainContentSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

func stripComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			stripComments(c)
		}
		c = next
	}
}
