package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/go-headline-exact/internal/config"
	"github.com/shouni/go-headline-exact/internal/watch"
)

var (
	watchProvidersPath string
	watchSchedule      string
	watchDir           string
	watchNow           bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "スケジュールに従って定期的に見出しを取得し、スナップショットを保存します",
	Long: `cron 形式のスケジュールごとに、scrape と同じ処理を独立して1回ずつ実行し、
結果を <dir>/<YYYY-MM-DD-HH-MM-SS.mmm>.json に保存します。前回の実行が終わっていない回はスキップされます。
SIGINT / SIGTERM で停止します。`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		defer syncLogger()

		providers, err := config.LoadProviders(watchProvidersPath)
		if err != nil {
			return err
		}
		p, err := newPipeline()
		if err != nil {
			return err
		}

		schedule := watchSchedule
		if schedule == "" {
			schedule = globalSettings.Watch.Schedule
		}
		dir := watchDir
		if dir == "" {
			dir = globalSettings.Watch.Dir
		}

		w, err := watch.New(p, providers, dir, globalLogger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watchNow {
			if _, err := w.Snapshot(ctx); err != nil {
				return fmt.Errorf("初回実行エラー: %w", err)
			}
		}
		return w.Start(ctx, schedule)
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchProvidersPath, "config", "c", "", "プロバイダー設定ファイル (JSON) のパス")
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "cron 式 (デフォルト: 設定の watch.schedule)")
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "スナップショットの保存先 (デフォルト: 設定の watch.dir)")
	watchCmd.Flags().BoolVar(&watchNow, "now", false, "開始時に1回実行する")
	_ = watchCmd.MarkFlagRequired("config")
}
