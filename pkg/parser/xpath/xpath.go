package xpath

import (
	"bytes"
	"context"
	"fmt"

	"github.com/antchfx/htmlquery"
	"github.com/dealdrop/dealdrop/pkg/stringer"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

type HtmlDocument struct {
	Node *html.Node
	Url  string
}

type Dependencies struct {
	Client *resty.Client
}

type Parser struct {
	deps Dependencies
}

func NewParser(deps Dependencies) *Parser {
	return &Parser{
		deps: deps,
	}
}

func (p *Parser) GetHtmlNode(ctx context.Context, url string) (*html.Node, error) {
	resp, err := p.deps.Client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("p.deps.Client.R().Get: %w", err)
	}

	node, err := html.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("html.Parse: %w", err)
	}

	return node, nil
}

func (p *Parser) GetHtmlDoc(ctx context.Context, url string) (*HtmlDocument, error) {
	htmlDoc, err := p.GetHtmlNode(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("p.GetHtmlNode: %w", err)
	}

	return &HtmlDocument{
		Node: htmlDoc,
		Url:  url,
	}, nil
}

func ParseDocument(content []byte, url string) (*HtmlDocument, error) {
	node, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("html.Parse: %w", err)
	}

	return &HtmlDocument{
		Node: node,
		Url:  url,
	}, nil
}

func CollectElements(doc *HtmlDocument, xpath string) []*html.Node {
	var nodes []*html.Node

	for _, node := range htmlquery.Find(doc.Node, xpath) {
		if node == nil {
			continue
		}
		nodes = append(nodes, node)
	}

	return nodes
}

func GetFirstElement(doc *HtmlDocument, xpath string) *html.Node {
	for _, node := range htmlquery.Find(doc.Node, xpath) {
		if node != nil {
			return node
		}
	}

	return nil
}

func GetAttribute(node *html.Node, attrKey string) (string, bool) {
	if node == nil {
		return "", false
	}

	for _, attr := range node.Attr {
		if attr.Key != attrKey {
			continue
		}
		return stringer.StripTags(attr.Val), true
	}

	return "", false
}

func GetContent(node *html.Node) (string, bool) {
	if node == nil || node.FirstChild == nil {
		return "", false
	}

	content := stringer.StripTags(node.FirstChild.Data)
	content = html.UnescapeString(content)

	return content, !stringer.IsEmptyStr(content)
}
