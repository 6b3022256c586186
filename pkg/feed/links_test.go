package feed

import (
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"

	"github.com/shouni/go-headline-exact/pkg/types"
)

// MockHeadlineSource は HeadlineSource インターフェースを満たすテスト用のモックです。
type MockHeadlineSource struct {
	Headlines []types.Headline
}

// GetHeadlines は設定された見出しを返します。
func (m *MockHeadlineSource) GetHeadlines() []types.Headline {
	return m.Headlines
}

// TestFeedAdapter_GetHeadlines は FeedAdapter が gofeed.Feed から正しく見出しを抽出できるかをテストします。
func TestFeedAdapter_GetHeadlines(t *testing.T) {
	tests := []struct {
		name     string
		feed     *gofeed.Feed
		expected []types.Headline
	}{
		{
			name: "正常ケース_検証を通過したアイテムのみ",
			feed: &gofeed.Feed{
				Items: []*gofeed.Item{
					{Title: "A", Link: "https://example.com/a"},
					{Title: "Insecure", Link: "http://example.com/b"}, // https 以外は除外
					{Title: "", Link: "https://example.com/c"},        // タイトルなしは除外
					{Title: "No Link"},                                // リンクなしは除外
					nil,
					{Title: "  D  ", Link: "https://example.com/d"},
				},
			},
			expected: []types.Headline{
				{Title: "A", Link: "https://example.com/a"},
				{Title: "D", Link: "https://example.com/d"},
			},
		},
		{
			name:     "エッジケース_アイテムが空",
			feed:     &gofeed.Feed{Items: []*gofeed.Item{}},
			expected: []types.Headline{},
		},
		{
			name:     "エッジケース_フィードがnil",
			feed:     nil,
			expected: []types.Headline{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewFeedAdapter(tt.feed)
			assert.Equal(t, tt.expected, adapter.GetHeadlines())
		})
	}
}

func TestGetAllHeadlines(t *testing.T) {
	t.Run("nil_source", func(t *testing.T) {
		assert.Equal(t, []types.Headline{}, GetAllHeadlines(nil))
	})

	t.Run("mock_source", func(t *testing.T) {
		want := []types.Headline{{Title: "X", Link: "https://example.com/x"}}
		assert.Equal(t, want, GetAllHeadlines(&MockHeadlineSource{Headlines: want}))
	})
}
