// Package config は、競合ウォッチの実行設定を YAML ファイルから読み込みます。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/shouni/go-competitor-watch/pkg/scraper"
	"github.com/shouni/go-competitor-watch/pkg/sites"
	"github.com/shouni/go-competitor-watch/pkg/snapshot"
)

// 隔離方式
const (
	// IsolationProcess は競合ごとにワーカープロセスを起動します。
	IsolationProcess = "process"
	// IsolationGoroutine は同一プロセス内の goroutine で実行します。
	IsolationGoroutine = "goroutine"
)

// 設定の検証エラー
var (
	ErrNoCompetitors            = errors.New("competitors には少なくとも1社が必要です")
	ErrEmptyCompetitorName      = errors.New("competitors に空の名前が含まれています")
	ErrInvalidAdapterTimeout    = errors.New("adapter_timeout は正の値である必要があります")
	ErrInvalidCompetitorTimeout = errors.New("competitor_timeout は adapter_timeout より長い必要があります")
	ErrInvalidMaxWorkers        = errors.New("max_workers は1以上である必要があります")
	ErrInvalidIsolation         = errors.New("isolation は 'process' または 'goroutine' である必要があります")
	ErrInvalidLimits            = errors.New("limits の各値は1以上である必要があります")
	ErrMissingOutputPath        = errors.New("output_path は必須です")
	ErrInvalidHTTPTimeout       = errors.New("http.timeout_sec は1以上である必要があります")
)

// Config は1回の実行に必要な設定です。
type Config struct {
	Competitors       []string          `yaml:"competitors"`
	OutputPath        string            `yaml:"output_path"`
	AdapterTimeout    time.Duration     `yaml:"adapter_timeout"`
	CompetitorTimeout time.Duration     `yaml:"competitor_timeout"`
	MaxWorkers        int               `yaml:"max_workers"`
	Isolation         string            `yaml:"isolation"`
	Limits            scraper.Limits    `yaml:"limits"`
	Browser           BrowserConfig     `yaml:"browser"`
	HTTP              HTTPConfig        `yaml:"http"`
	Feeds             map[string]string `yaml:"feeds"`
}

// BrowserConfig はヘッドレスブラウザの設定です。
type BrowserConfig struct {
	Bin     string `yaml:"bin"`
	Headful bool   `yaml:"headful"`
}

// HTTPConfig は静的取得・フィード取得に使う HTTP クライアントの設定です。
type HTTPConfig struct {
	TimeoutSec int `yaml:"timeout_sec"`
	MaxRetries int `yaml:"max_retries"`
}

// Default は既定の設定を返します。
func Default() Config {
	return Config{
		Competitors:       sites.DefaultCompetitors(),
		OutputPath:        snapshot.DefaultPath,
		AdapterTimeout:    scraper.DefaultAdapterTimeout,
		CompetitorTimeout: scraper.DefaultCompetitorTimeout,
		MaxWorkers:        scraper.DefaultMaxWorkers,
		Isolation:         IsolationProcess,
		Limits:            scraper.DefaultLimits(),
		HTTP: HTTPConfig{
			TimeoutSec: 30,
			MaxRetries: 2,
		},
		Feeds: sites.DefaultFeedURLs(),
	}
}

// Load は path の YAML を読み込み、未設定の項目を既定値で補います。
// path と同じ場所に <name>.local.<ext> がある場合は、その内容で上書きします。
// path が空の場合は既定の設定を返します。
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if err := readYAML(path, &cfg); err != nil {
			return Config{}, err
		}

		localPath := localOverridePath(path)
		if _, err := os.Stat(localPath); err == nil {
			var local Config
			if err := readYAML(localPath, &local); err != nil {
				return Config{}, err
			}
			if err := mergo.Merge(&cfg, local, mergo.WithOverride); err != nil {
				return Config{}, fmt.Errorf("ローカル設定のマージに失敗しました: %w", err)
			}
		}
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("設定の検証に失敗しました: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults はゼロ値の項目を Default の値で埋めます。
func (c *Config) ApplyDefaults() error {
	if err := mergo.Merge(c, Default()); err != nil {
		return fmt.Errorf("既定値のマージに失敗しました: %w", err)
	}
	return nil
}

// Validate は設定値を検証します。
func (c *Config) Validate() error {
	if len(c.Competitors) == 0 {
		return ErrNoCompetitors
	}
	for i, name := range c.Competitors {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: competitors[%d]", ErrEmptyCompetitorName, i)
		}
	}

	if c.OutputPath == "" {
		return ErrMissingOutputPath
	}

	if c.AdapterTimeout <= 0 {
		return ErrInvalidAdapterTimeout
	}
	// 1社分の3回の呼び出しが打ち切られる前に、少なくとも1回は完走できる必要がある
	if c.CompetitorTimeout <= c.AdapterTimeout {
		return ErrInvalidCompetitorTimeout
	}

	if c.MaxWorkers < 1 {
		return ErrInvalidMaxWorkers
	}

	if c.Isolation != IsolationProcess && c.Isolation != IsolationGoroutine {
		return fmt.Errorf("%w: %q", ErrInvalidIsolation, c.Isolation)
	}

	if c.Limits.News < 1 || c.Limits.Jobs < 1 || c.Limits.Patents < 1 {
		return ErrInvalidLimits
	}

	if c.HTTP.TimeoutSec < 1 {
		return ErrInvalidHTTPTimeout
	}

	return nil
}

func readYAML(path string, out *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("YAMLの解析に失敗しました (%s): %w", path, err)
	}
	return nil
}

// localOverridePath は config.yaml に対して config.local.yaml を返します。
func localOverridePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}
