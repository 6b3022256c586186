package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-headline-exact/internal/report"
	"github.com/shouni/go-headline-exact/pkg/feed"
	"github.com/shouni/go-headline-exact/pkg/parser"
)

// フィードURLを保持するフラグ変数
var feedURL string

// runParsePipeline は、フィードの取得とパースを実行するメインロジックです。
func runParsePipeline(ctx context.Context, url string, p *parser.Parser) (*gofeed.Feed, error) {
	parsedFeed, err := p.FetchAndParse(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得およびパースエラー (URL: %s): %w", url, err)
	}
	return parsedFeed, nil
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "RSS/Atomフィードを取得・解析し、見出しを一覧表示します",
	Long:  `指定されたURLからRSSまたはAtomフィードを取得し、https のリンクを持つ記事を見出しとして表示します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		defer syncLogger()

		processedURL, err := ensureScheme(feedURL)
		if err != nil {
			return fmt.Errorf("URLスキームの処理エラー: %w", err)
		}

		fetcher := GetGlobalFetcher()
		if fetcher == nil {
			return fmt.Errorf("HTTPクライアントの取得に失敗しました")
		}

		start := time.Now()
		parsedFeed, err := runParsePipeline(cmd.Context(), processedURL, parser.NewParser(fetcher))
		if err != nil {
			return err
		}

		headlines := feed.GetAllHeadlines(feed.NewFeedAdapter(parsedFeed))
		globalLogger.Info("フィードを解析しました",
			zap.String("url", processedURL),
			zap.String("title", parsedFeed.Title),
			zap.Int("items", len(parsedFeed.Items)),
			zap.Int("headlines", len(headlines)),
			zap.Duration("elapsed", time.Since(start)),
		)

		fmt.Fprintf(cmd.OutOrStdout(), "フィードタイトル: %s\n", parsedFeed.Title)
		report.Headlines(cmd.OutOrStdout(), headlines)
		return nil
	},
}

func init() {
	feedCmd.Flags().StringVarP(&feedURL, "url", "u", "", "解析対象のフィード (RSS/Atom) URL")
	_ = feedCmd.MarkFlagRequired("url")
}
