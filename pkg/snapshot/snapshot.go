// Package snapshot は、抽出結果を JSON ファイルとして書き出し・読み込みします。
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/shouni/go-competitor-watch/pkg/types"
)

// DefaultPath は出力ファイルの既定のパスです。
const DefaultPath = "outputData.json"

// Write は snap を path に書き出します。既存のファイルは先に削除されます。
// 削除の失敗は無視し、書き込みの失敗のみを返します。
//
// NOTE: 一時ファイルからの rename は行わないため、書き込み途中で異常終了すると
// 途中までの内容が残る可能性があります。
func Write(path string, snap types.Snapshot) error {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			log.Printf("既存の出力ファイルの削除に失敗しました (無視します): %v", err)
		}
	}

	normalized := types.Snapshot{Competitor: make([]types.CompetitorResult, 0, len(snap.Competitor))}
	for _, r := range snap.Competitor {
		normalized.Competitor = append(normalized.Competitor, r.Normalize())
	}

	if err := writeJSON(path, normalized); err != nil {
		return fmt.Errorf("スナップショットの書き込みに失敗しました (%s): %w", path, err)
	}
	return nil
}

// WriteResult は1社分の結果を path に書き出します。
// ワーカープロセスから親プロセスへ結果を受け渡すために使います。
func WriteResult(path string, r types.CompetitorResult) error {
	if err := writeJSON(path, r.Normalize()); err != nil {
		return fmt.Errorf("結果の書き込みに失敗しました (%s): %w", path, err)
	}
	return nil
}

// ReadResult は WriteResult で書き出された結果を読み込みます。
func ReadResult(path string) (types.CompetitorResult, error) {
	var r types.CompetitorResult
	if err := readJSON(path, &r); err != nil {
		return types.CompetitorResult{}, fmt.Errorf("結果の読み込みに失敗しました (%s): %w", path, err)
	}
	return r.Normalize(), nil
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return Encode(f, v)
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}

// Encode は v を HTML エスケープなしの JSON として w に書き出します。
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	// URL の & などをそのまま残す
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
