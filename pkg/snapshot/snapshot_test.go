package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-competitor-watch/pkg/types"
)

func sampleSnapshot() types.Snapshot {
	return types.Snapshot{Competitor: []types.CompetitorResult{
		{
			Name:    "A",
			News:    []types.News{{Headline: "h", URL: "https://a.example/n?x=1&y=2", Date: "01/02/2025"}},
			Jobs:    []types.Job{{Title: "j", URL: "https://a.example/j"}},
			Patents: []types.Patent{{Title: "p", URL: "https://a.example/p", Date: "03/04/2025"}},
		},
		{Name: "B"},
	}}
}

func TestWrite_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Write(path, sampleSnapshot()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	got := string(raw)

	for _, key := range []string{`"Competitor"`, `"Name"`, `"News"`, `"Headline"`, `"Job Title"`, `"Patents"`, `"Title"`, `"Date"`, `"URL"`} {
		assert.Contains(t, got, key)
	}
	assert.Contains(t, got, `"Name":"B","News":[],"Jobs":[],"Patents":[]`)
	assert.NotContains(t, got, "null")
	assert.Contains(t, got, "x=1&y=2", "HTMLエスケープされていないこと")
}

func TestWrite_OverwriteLeavesNoResidue(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)

	// 新しい内容より長い既存ファイル
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 10000)), 0o644))

	require.NoError(t, Write(path, sampleSnapshot()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, Write(path, sampleSnapshot()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotContains(t, string(second), "xxx")

	var got types.Snapshot
	require.NoError(t, readJSON(path, &got))
	want := sampleSnapshot()
	want.Competitor[1] = want.Competitor[1].Normalize()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_Failure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", DefaultPath)
	err := Write(path, sampleSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "スナップショットの書き込みに失敗しました")
}

func TestResultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, WriteResult(path, types.CompetitorResult{Name: "Solo"}))

	got, err := ReadResult(path)
	require.NoError(t, err)
	assert.Equal(t, types.EmptyResult("Solo"), got)

	_, err = ReadResult(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
