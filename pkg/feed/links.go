package feed

import (
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/shouni/go-headline-exact/pkg/extract"
	"github.com/shouni/go-headline-exact/pkg/types"
)

// HeadlineSource は、見出しのリストを提供できる任意の型を表します。
type HeadlineSource interface {
	GetHeadlines() []types.Headline
}

// FeedAdapter は gofeed.Feed を HeadlineSource に適合させるためのアダプターです。
type FeedAdapter struct {
	*gofeed.Feed
}

// NewFeedAdapter は gofeed.Feed から新しいアダプターを作成します。
func NewFeedAdapter(feed *gofeed.Feed) *FeedAdapter {
	return &FeedAdapter{Feed: feed}
}

// GetHeadlines はフィードのアイテムを見出しに変換します。
// HTML から抽出する場合と同じく、リンクが https で始まりタイトルが空でないものだけを返します。
func (a *FeedAdapter) GetHeadlines() []types.Headline {
	if a.Feed == nil || len(a.Items) == 0 {
		return []types.Headline{}
	}

	headlines := make([]types.Headline, 0, len(a.Items))
	for _, item := range a.Items {
		if item == nil {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" || !extract.IsTrustedLink(item.Link) {
			continue
		}
		headlines = append(headlines, types.Headline{Title: title, Link: item.Link})
	}
	return headlines
}

// GetAllHeadlines は HeadlineSource から見出しを取り出す汎用関数です。
func GetAllHeadlines(source HeadlineSource) []types.Headline {
	if source == nil {
		return []types.Headline{}
	}
	return source.GetHeadlines()
}
