package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 設定キー
const (
	KeyFetchTimeout   = "fetch.timeout"
	KeyUserAgent      = "fetch.user_agent"
	KeyMaxBodyBytes   = "fetch.max_body_bytes"
	KeyLogLevel       = "log.level"
	KeyLogDir         = "log.dir"
	KeyOutputPath     = "output.path"
	KeyWatchSchedule  = "watch.schedule"
	KeyWatchOutputDir = "watch.dir"

	// EnvPrefix は環境変数のプレフィックスです (例: HEADLINE_EXACT_FETCH_TIMEOUT)。
	EnvPrefix = "HEADLINE_EXACT"
)

// デフォルト値
const (
	DefaultFetchTimeout   = 10 * time.Second
	DefaultMaxBodyBytes   = int64(10 * 1024 * 1024)
	DefaultLogLevel       = "info"
	DefaultOutputPath     = "headlines.json"
	DefaultWatchSchedule  = "*/30 * * * *"
	DefaultWatchOutputDir = "snapshots"
)

// Settings はアプリケーションの実行時設定です。
type Settings struct {
	Fetch  FetchSettings
	Log    LogSettings
	Output OutputSettings
	Watch  WatchSettings
}

// FetchSettings はページ取得の設定です。
type FetchSettings struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// LogSettings はログ出力の設定です。
type LogSettings struct {
	Level string
	// Dir が空でない場合、そのディレクトリにも実行ごとのログファイルを出力します。
	Dir string
}

// OutputSettings は結果の出力先です。
type OutputSettings struct {
	Path string
}

// WatchSettings は定期実行の設定です。
type WatchSettings struct {
	Schedule string
	Dir      string
}

// NewViper はデフォルト値と環境変数の設定を済ませた viper インスタンスを返します。
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyFetchTimeout, DefaultFetchTimeout)
	v.SetDefault(KeyUserAgent, "")
	v.SetDefault(KeyMaxBodyBytes, DefaultMaxBodyBytes)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogDir, "")
	v.SetDefault(KeyOutputPath, DefaultOutputPath)
	v.SetDefault(KeyWatchSchedule, DefaultWatchSchedule)
	v.SetDefault(KeyWatchOutputDir, DefaultWatchOutputDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings は設定ファイル (任意) を読み込み、Settings を組み立てます。
// path が空の場合はデフォルト値・環境変数・バインド済みのフラグのみを使います。
func LoadSettings(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました (%s): %w", path, err)
		}
	}

	s := &Settings{
		Fetch: FetchSettings{
			Timeout:      v.GetDuration(KeyFetchTimeout),
			UserAgent:    v.GetString(KeyUserAgent),
			MaxBodyBytes: v.GetInt64(KeyMaxBodyBytes),
		},
		Log: LogSettings{
			Level: v.GetString(KeyLogLevel),
			Dir:   v.GetString(KeyLogDir),
		},
		Output: OutputSettings{
			Path: v.GetString(KeyOutputPath),
		},
		Watch: WatchSettings{
			Schedule: v.GetString(KeyWatchSchedule),
			Dir:      v.GetString(KeyWatchOutputDir),
		},
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate は明らかに不正な設定値を検出します。
func (s *Settings) Validate() error {
	var errs []error
	if s.Fetch.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%s は0以上である必要があります: %s", KeyFetchTimeout, s.Fetch.Timeout))
	}
	if s.Fetch.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("%s は0以上である必要があります: %d", KeyMaxBodyBytes, s.Fetch.MaxBodyBytes))
	}
	if s.Output.Path == "" {
		errs = append(errs, fmt.Errorf("%s が空です", KeyOutputPath))
	}
	return errors.Join(errs...)
}
