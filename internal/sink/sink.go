package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shouni/go-headline-exact/pkg/types"
)

// Sink はパイプラインの結果を出力先に書き出します。
type Sink interface {
	Emit(result types.Result) error
}

// Encode は結果を2スペースインデントの JSON として w に書き込みます。
func Encode(w io.Writer, result types.Result) error {
	if result == nil {
		result = types.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("結果のエンコードに失敗しました: %w", err)
	}
	return nil
}

// WriterSink は io.Writer (標準出力など) に結果を書き込みます。
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Emit(result types.Result) error {
	return Encode(s.w, result)
}

// FileSink は結果をファイルに書き込みます。
// 一時ファイルに書いてから rename するため、読み手が書きかけの内容を見ることはありません。
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path は出力先のパスを返します。
func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Emit(result types.Result) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗しました (%s): %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, result); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("一時ファイルのクローズに失敗しました: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("出力ファイルの書き込みに失敗しました (%s): %w", s.path, err)
	}
	return nil
}
