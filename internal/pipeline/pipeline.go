package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shouni/go-headline-exact/pkg/extract"
	"github.com/shouni/go-headline-exact/pkg/scraper"
	"github.com/shouni/go-headline-exact/pkg/types"
)

// Pipeline は、全 Provider のページを並列に取得し、Provider ごとに見出しを抽出するメインの処理パイプラインです。
type Pipeline struct {
	scraper   scraper.Scraper
	extractor extract.HeadlineExtractor
	logger    *zap.Logger
}

// New は Pipeline を初期化します。
func New(s scraper.Scraper, e extract.HeadlineExtractor, logger *zap.Logger) (*Pipeline, error) {
	if s == nil {
		return nil, fmt.Errorf("pipeline.New: Scraper cannot be nil")
	}
	if e == nil {
		return nil, fmt.Errorf("pipeline.New: HeadlineExtractor cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		scraper:   s,
		extractor: e,
		logger:    logger,
	}, nil
}

// Run は Provider のリストを1回だけ処理し、入力と同じ順序・同じ件数の結果を返します。
// 取得や解析に失敗したソースは空の見出しリストになり、バッチ全体は常に完了します。
func (p *Pipeline) Run(ctx context.Context, providers []types.Provider) types.Result {
	log := p.logger.With(zap.String("run_id", uuid.NewString()))
	start := time.Now()
	log.Info("パイプラインを開始します", zap.Int("providers", len(providers)))

	// 1. 全ページを並列に取得 (すべての取得が完了するまでブロック)
	pages := p.scraper.ScrapeInParallel(ctx, providers)

	// 2. 入力順に URL で結果を引き当て、見出しを抽出
	result := make(types.Result, 0, len(providers))
	fetched, empty := 0, 0
	for _, provider := range providers {
		page := pages[provider.URL()]
		if !page.IsAbsent() {
			fetched++
		}

		headlines, err := p.extractor.Extract(page, provider.Tag(), provider.Attrs())
		if err != nil {
			// 解析エラーはこのソースだけに閉じ込め、取得失敗と同じく空の結果にする
			log.Warn("見出しの抽出に失敗しました",
				zap.String("url", provider.URL()),
				zap.Error(err),
			)
			headlines = []types.Headline{}
		}
		if headlines == nil {
			headlines = []types.Headline{}
		}
		if len(headlines) == 0 {
			empty++
		}

		log.Debug("見出しを抽出しました",
			zap.String("url", provider.URL()),
			zap.Int("headlines", len(headlines)),
		)
		result = append(result, types.SourceResult{URL: provider.URL(), Headlines: headlines})
	}

	// 3. 結果のサマリー
	log.Info("パイプラインが完了しました",
		zap.Int("providers", len(providers)),
		zap.Int("fetched", fetched),
		zap.Int("empty", empty),
		zap.Int("headlines", result.TotalHeadlines()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result
}
