package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logFileLayout は実行ごとのログファイル名の書式です。
const logFileLayout = "2006-01-02-15-04-05"

// Config はロガーの構築設定です。
type Config struct {
	Level string
	// Dir が空でない場合、<Dir>/YYYY-MM-DD-HH-MM-SS.log にも出力します。
	Dir string
	// Now はログファイル名の時刻を決めます。nil の場合は time.Now を使います。
	Now func() time.Time
}

// New は JSON 形式の zap ロガーを構築します。
func New(cfg Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	zapCfg.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.Sampling = nil

	if cfg.Dir != "" {
		path, err := FilePath(cfg.Dir, cfg.now())
		if err != nil {
			return nil, err
		}
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, path)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("ロガーの構築に失敗しました: %w", err)
	}
	return logger, nil
}

// FilePath はログディレクトリを作成し、t に対応するログファイルのパスを返します。
func FilePath(dir string, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ログディレクトリの作成に失敗しました (%s): %w", dir, err)
	}
	return filepath.Join(dir, t.Format(logFileLayout)+".log"), nil
}

// ParseLevel はレベル名を zapcore.Level に変換します。未知の値は info です。
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
