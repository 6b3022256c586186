package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shouni/go-headline-exact/internal/sink"
	"github.com/shouni/go-headline-exact/pkg/types"
)

// snapshotLayout はスナップショットのファイル名の書式です (ミリ秒まで)。
const snapshotLayout = "2006-01-02-15-04-05.000"

// Runner は1回分のパイプライン実行です。
type Runner interface {
	Run(ctx context.Context, providers []types.Provider) types.Result
}

// Watcher はスケジュールに従ってパイプラインを実行し、結果をスナップショットとして保存します。
// 各回は独立した1回限りの実行で、前回の結果は引き継ぎません。
type Watcher struct {
	runner    Runner
	providers []types.Provider
	dir       string
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	runs     int
	lastBase string
	seq      int
}

// Option は Watcher の設定を変更します。
type Option func(*Watcher)

// WithClock はスナップショット名に使う時刻を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// New は Watcher を初期化します。
func New(runner Runner, providers []types.Provider, dir string, logger *zap.Logger, opts ...Option) (*Watcher, error) {
	if runner == nil {
		return nil, fmt.Errorf("watch.New: Runner cannot be nil")
	}
	if dir == "" {
		return nil, fmt.Errorf("watch.New: 出力ディレクトリが空です")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		runner:    runner,
		providers: providers,
		dir:       dir,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Runs はこれまでに完了したスナップショットの数を返します。
func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// Snapshot はパイプラインを1回実行し、<dir>/<timestamp>.json に保存してそのパスを返します。
func (w *Watcher) Snapshot(ctx context.Context) (string, error) {
	path := filepath.Join(w.dir, w.nextName()+".json")

	result := w.runner.Run(ctx, w.providers)
	if err := sink.NewFileSink(path).Emit(result); err != nil {
		return "", fmt.Errorf("スナップショットの保存に失敗しました: %w", err)
	}

	w.mu.Lock()
	w.runs++
	w.mu.Unlock()

	w.logger.Info("スナップショットを保存しました",
		zap.String("path", path),
		zap.Int("sources", len(result)),
		zap.Int("headlines", result.TotalHeadlines()),
	)
	return path, nil
}

// nextName はスナップショットのファイル名 (拡張子なし) を予約します。
// 同じ時刻が続いた場合は -1, -2, ... を付け、前のスナップショットを上書きしません。
func (w *Watcher) nextName() string {
	base := w.now().Format(snapshotLayout)

	w.mu.Lock()
	defer w.mu.Unlock()
	if base != w.lastBase {
		w.lastBase = base
		w.seq = 0
		return base
	}
	w.seq++
	return fmt.Sprintf("%s-%d", base, w.seq)
}

// Start は schedule (標準の5フィールド cron 式) に従って Snapshot を実行し、ctx が終了するまでブロックします。
// 前回の実行が終わっていない場合、その回はスキップされます。
func (w *Watcher) Start(ctx context.Context, schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	logger := newCronLogger(w.logger)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := c.AddFunc(schedule, func() {
		if _, err := w.Snapshot(ctx); err != nil {
			w.logger.Error("定期実行に失敗しました", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("スケジュールの解析に失敗しました (%q): %w", schedule, err)
	}

	w.logger.Info("定期実行を開始します",
		zap.String("schedule", schedule),
		zap.String("dir", w.dir),
		zap.Int("providers", len(w.providers)),
	)
	c.Start()
	<-ctx.Done()

	// 実行中のジョブの完了を待つ
	<-c.Stop().Done()
	w.logger.Info("定期実行を停止しました", zap.Int("runs", w.Runs()))
	return nil
}
