package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/shouni/go-headline-exact/pkg/types"
)

var (
	// ErrReadProviders はプロバイダー設定ファイルを開けない・読めない場合のエラーです。
	ErrReadProviders = errors.New("プロバイダー設定ファイルを読み込めません")
	// ErrDecodeProviders はプロバイダー設定ファイルが不正なJSONの場合のエラーです。
	ErrDecodeProviders = errors.New("プロバイダー設定ファイルのJSON形式が不正です")
	// ErrInvalidProviders は必須項目の欠落など、検証に失敗した場合のエラーです。
	ErrInvalidProviders = errors.New("プロバイダー設定の検証に失敗しました")
)

// ProviderConfig は設定ファイル上の1ソース分のレコードです。
// xhr は tag の旧名で、どちらか一方が必須です。
type ProviderConfig struct {
	URL   string            `json:"url" validate:"required,url"`
	Tag   string            `json:"tag" validate:"required_without=XHR"`
	XHR   string            `json:"xhr" validate:"required_without=Tag"`
	Attrs map[string]string `json:"attrs"`
}

// SelectorTag は実際に使うタグ名を返します。
func (c ProviderConfig) SelectorTag() string {
	if c.Tag != "" {
		return c.Tag
	}
	return c.XHR
}

// namedProvider はファイル上の名前 (キーまたは配列の添字) とレコードの組です。
type namedProvider struct {
	name   string
	config ProviderConfig
}

var validate = validator.New()

// LoadProviders はファイルからプロバイダー設定を読み込み、検証し、ファイル上の順序で返します。
func LoadProviders(path string) ([]types.Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %v", ErrReadProviders, path, err)
	}
	defer f.Close()

	return ReadProviders(f)
}

// ReadProviders は r からプロバイダー設定を読み込みます。
// トップレベルは {"名前": {...}, ...} 形式のオブジェクト、またはレコードの配列を受け付けます。
func ReadProviders(r io.Reader) ([]types.Provider, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadProviders, err)
	}

	entries, err := decodeProviders(data)
	if err != nil {
		return nil, err
	}

	// 1. 構造の検証 (すべてのエラーをまとめて報告)
	var problems []string
	for _, e := range entries {
		if err := validate.Struct(e.config); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %s", e.name, describe(err)))
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProviders, strings.Join(problems, "; "))
	}

	// 2. Provider への変換
	providers := make([]types.Provider, 0, len(entries))
	for _, e := range entries {
		providers = append(providers, types.NewProvider(e.config.URL, e.config.SelectorTag(), e.config.Attrs))
	}
	return providers, nil
}

// decodeProviders はキーの順序を保ったまま JSON をデコードします。
func decodeProviders(data []byte) ([]namedProvider, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: ファイルが空です", ErrDecodeProviders)
	}

	if trimmed[0] == '[' {
		var list []ProviderConfig
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeProviders, err)
		}
		entries := make([]namedProvider, 0, len(list))
		for i, c := range list {
			entries = append(entries, namedProvider{name: fmt.Sprintf("[%d]", i), config: c})
		}
		return entries, nil
	}

	om := orderedmap.New[string, ProviderConfig]()
	if err := json.Unmarshal(trimmed, om); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeProviders, err)
	}
	entries := make([]namedProvider, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, namedProvider{name: pair.Key, config: pair.Value})
	}
	return entries, nil
}

// describe は validator のエラーを読みやすい文字列にします。
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(msgs, ", ")
}
