package cmd

import (
	"fmt"
	"time"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-headline-exact/internal/config"
	"github.com/shouni/go-headline-exact/internal/logging"
	"github.com/shouni/go-headline-exact/internal/pipeline"
	"github.com/shouni/go-headline-exact/pkg/extract"
	"github.com/shouni/go-headline-exact/pkg/httpclient"
	"github.com/shouni/go-headline-exact/pkg/scraper"
)

// --- グローバル定数 ---

const (
	appName           = "headline-exact"
	defaultTimeoutSec = 10 // 秒
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	TimeoutSec   int    // --timeout 1件あたりの取得タイムアウト (秒)
	SettingsPath string // --settings 設定ファイル
	LogLevel     string // --log-level
	LogDir       string // --log-dir
}

var Flags AppFlags

var (
	globalSettings *config.Settings
	globalLogger   = zap.NewNop()
	globalFetcher  *httpclient.Client
)

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().IntVar(&Flags.TimeoutSec, "timeout", defaultTimeoutSec,
		"1ソースあたりのHTTPリクエストのタイムアウト時間（秒）。0以下はデフォルト値")
	rootCmd.PersistentFlags().StringVar(&Flags.SettingsPath, "settings", "",
		"設定ファイル (YAML/JSON/TOML) のパス")
	rootCmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "",
		"ログレベル (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&Flags.LogDir, "log-dir", "",
		"ログファイルの出力ディレクトリ (空の場合は標準エラー出力のみ)")
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	// 1. 設定 (デフォルト < 設定ファイル < 環境変数 < フラグ)
	v := config.NewViper()
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		v.Set(config.KeyLogLevel, f.Value.String())
	}
	if f := cmd.Flags().Lookup("log-dir"); f != nil && f.Changed {
		v.Set(config.KeyLogDir, f.Value.String())
	}
	if cmd.Flags().Changed("timeout") {
		v.Set(config.KeyFetchTimeout, time.Duration(Flags.TimeoutSec)*time.Second)
	}

	settings, err := config.LoadSettings(v, Flags.SettingsPath)
	if err != nil {
		return fmt.Errorf("設定の読み込みエラー: %w", err)
	}
	if clibase.Flags.Verbose && !cmd.Flags().Changed("log-level") {
		settings.Log.Level = "debug"
	}

	// 2. ロガー
	logger, err := logging.New(logging.Config{Level: settings.Log.Level, Dir: settings.Log.Dir})
	if err != nil {
		return fmt.Errorf("ロガーの初期化エラー: %w", err)
	}

	// 3. 共有フェッチャー
	globalFetcher = httpclient.New(
		settings.Fetch.Timeout,
		httpclient.WithUserAgent(settings.Fetch.UserAgent),
		httpclient.WithMaxBodySize(settings.Fetch.MaxBodyBytes),
		httpclient.WithLogger(logger),
	)
	globalSettings = settings
	globalLogger = logger

	logger.Debug("設定を読み込みました",
		zap.Duration("timeout", settings.Fetch.Timeout),
		zap.String("log_level", settings.Log.Level),
		zap.String("settings", Flags.SettingsPath),
	)
	return nil
}

// GetGlobalFetcher は、初期化されたフェッチャーを返す関数 (DIの代わり)
func GetGlobalFetcher() *httpclient.Client {
	return globalFetcher
}

// newPipeline は共有フェッチャーからパイプラインを組み立てます。
func newPipeline() (*pipeline.Pipeline, error) {
	fetcher := GetGlobalFetcher()
	if fetcher == nil {
		return nil, fmt.Errorf("HTTPクライアントが初期化されていません")
	}
	s, err := scraper.NewParallelScraper(fetcher, globalLogger)
	if err != nil {
		return nil, fmt.Errorf("Scraperの初期化エラー: %w", err)
	}
	return pipeline.New(s, extract.NewExtractor(), globalLogger)
}

func syncLogger() {
	_ = globalLogger.Sync()
}

// --- エントリポイント ---

// Execute は、clibase を使ってルートコマンドを実行します。
func Execute() {
	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		scrapeCmd,
		watchCmd,
		extractCmd,
		feedCmd,
	)
}
