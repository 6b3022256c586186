package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shouni/go-headline-exact/pkg/types"
)

// Fetcher は1つのURLのページを取得する機能のインターフェースです。
// 失敗は types.Absent() で表現し、エラーやパニックを返さないことが期待されます。
type Fetcher interface {
	Fetch(ctx context.Context, url string) types.Page
}

// Scraper は複数の Provider のページを取得する機能を提供するインターフェースです。
type Scraper interface {
	ScrapeInParallel(ctx context.Context, providers []types.Provider) map[string]types.Page
}

// ParallelScraper は Provider ごとに1つの goroutine を起動してページを並列に取得します。
// 同時実行数の上限は設けていません (数十件程度のリストを想定しています)。
type ParallelScraper struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewParallelScraper は ParallelScraper を初期化します。
func NewParallelScraper(fetcher Fetcher, logger *zap.Logger) (*ParallelScraper, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("scraper.NewParallelScraper: Fetcher cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParallelScraper{
		fetcher: fetcher,
		logger:  logger,
	}, nil
}

// pageResult は各 goroutine がコレクターに送る取得結果です。
type pageResult struct {
	url  string
	page types.Page
}

// ScrapeInParallel はすべての Provider のページを並列に取得し、URLをキーとするマップを返します。
// すべての取得が完了するまでブロックします。途中で打ち切ることはありません。
// 同じURLが複数ある場合は後に書き込まれた結果が残ります。
func (s *ParallelScraper) ScrapeInParallel(ctx context.Context, providers []types.Provider) map[string]types.Page {
	var wg sync.WaitGroup
	resultsChan := make(chan pageResult, len(providers))
	start := time.Now()

	for _, p := range providers {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			resultsChan <- pageResult{url: url, page: s.fetchSafely(ctx, url)}
		}(p.URL())
	}

	wg.Wait()
	close(resultsChan)

	pages := make(map[string]types.Page, len(providers))
	absent := 0
	for res := range resultsChan {
		pages[res.url] = res.page
		if res.page.IsAbsent() {
			absent++
		}
	}

	s.logger.Debug("全ページの取得が完了しました",
		zap.Int("providers", len(providers)),
		zap.Int("absent", absent),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pages
}

// fetchSafely は Fetcher のパニックを回収し、取得失敗として扱います。
func (s *ParallelScraper) fetchSafely(ctx context.Context, url string) (page types.Page) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("ページ取得中にパニックが発生しました",
				zap.String("url", url),
				zap.Any("panic", r),
			)
			page = types.Absent()
		}
	}()
	return s.fetcher.Fetch(ctx, url)
}
