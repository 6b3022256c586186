package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/shouni/go-headline-exact/pkg/types"
)

// ErrFeedUnavailable はフィードを取得できなかったことを示します。
var ErrFeedUnavailable = errors.New("フィードを取得できませんでした")

// Parserが依存すべきインターフェース
type Fetcher interface {
	Fetch(ctx context.Context, url string) types.Page
}

// Parser はページ取得と RSS/Atom のパースを行います。
type Parser struct {
	client Fetcher // インターフェースに依存
}

// NewParser は新しい Parser インスタンスを初期化し、依存関係を注入します。
// *httpclient.Client は Fetcher インターフェースを満たしているため、そのまま渡せます。
func NewParser(client Fetcher) *Parser {
	return &Parser{client: client}
}

// FetchAndParse は指定されたURLからフィードを取得し、パースします。
func (p *Parser) FetchAndParse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	content, ok := p.client.Fetch(ctx, feedURL).Content()
	if !ok {
		return nil, fmt.Errorf("%w (URL: %s)", ErrFeedUnavailable, feedURL)
	}

	fp := gofeed.NewParser()
	feed, parseErr := fp.ParseString(content)
	if parseErr != nil {
		return nil, fmt.Errorf("RSSフィードのパース失敗 (URL: %s): %w", feedURL, parseErr)
	}
	return feed, nil
}
