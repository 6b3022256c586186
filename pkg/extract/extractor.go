package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"

	"github.com/shouni/go-headline-exact/pkg/types"
)

// ----------------------------------------------------------------------
// 定数定義
// ----------------------------------------------------------------------
const (
	// DefaultLinkAttr は見出しのリンクを読み取る属性です。
	DefaultLinkAttr = "href"
	// TrustedScheme は見出しとして受け入れるリンクのプレフィックスです。
	TrustedScheme = "https://"

	classAttr = "class"
)

// Extractor は、ページのHTMLからタグと属性に一致する要素を探し、見出しを抽出します。
type Extractor struct {
	linkAttr string
}

// Option は Extractor の設定を行うための関数型です。
type Option func(*Extractor)

// WithLinkAttr はリンクを読み取る属性を変更します (例: data-href)。
func WithLinkAttr(attr string) Option {
	return func(e *Extractor) {
		if attr != "" {
			e.linkAttr = attr
		}
	}
}

// NewExtractor は、新しい Extractor のインスタンスを生成します。
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{linkAttr: DefaultLinkAttr}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsTrustedLink はリンクが安全なスキーム (https://) で始まるかを判定します。
func IsTrustedLink(link string) bool {
	return strings.HasPrefix(link, TrustedScheme)
}

// ----------------------------------------------------------------------
// メイン関数
// ----------------------------------------------------------------------

// Extract はページから見出しをドキュメント順に抽出します。
// ページが取得失敗 (Absent) の場合は空のスライスを返します。これはエラーではありません。
// 条件を満たさない要素 (リンクなし、https 以外、テキストなし) は何も報告せずに除外されます。
func (e *Extractor) Extract(page types.Page, tag string, attrs map[string]string) ([]types.Headline, error) {
	headlines := []types.Headline{}

	content, ok := page.Content()
	if !ok {
		return headlines, nil
	}

	// 1. goquery.Document に変換 (解析の責務)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return headlines, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}

	// 2. タグと属性に一致する要素を走査 (goquery は DOM の出現順に返す)
	doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.EqualFold(goquery.NodeName(s), tag) && matchAttrs(s, attrs)
	}).Each(func(_ int, s *goquery.Selection) {
		// 3. 検証して見出しに変換
		if h, ok := e.toHeadline(s); ok {
			headlines = append(headlines, h)
		}
	})

	return headlines, nil
}

// toHeadline は要素からリンクとテキストを取り出し、検証を通過した場合のみ見出しを返します。
func (e *Extractor) toHeadline(s *goquery.Selection) (types.Headline, bool) {
	link, exists := s.Attr(e.linkAttr)
	if !exists || link == "" {
		return types.Headline{}, false
	}
	if !IsTrustedLink(link) {
		return types.Headline{}, false
	}
	title := strings.TrimSpace(textUtils.NormalizeText(s.Text()))
	if title == "" {
		return types.Headline{}, false
	}
	return types.Headline{Title: title, Link: link}, true
}

// matchAttrs は要素が attrs のすべてのキーを同じ値で持っているかを判定します。
// class 属性は、空白区切りのクラスのうち1つが一致する場合も一致とみなします。
func matchAttrs(s *goquery.Selection, attrs map[string]string) bool {
	for key, want := range attrs {
		got, exists := s.Attr(key)
		if !exists {
			return false
		}
		if got == want {
			continue
		}
		if strings.EqualFold(key, classAttr) && hasClassToken(got, want) {
			continue
		}
		return false
	}
	return true
}

func hasClassToken(classes, want string) bool {
	for _, c := range strings.Fields(classes) {
		if c == want {
			return true
		}
	}
	return false
}
