package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsconv/internal/convert"
	"tsconv/internal/model"
)

var fixedNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func newTestRunner(appendCurrent bool) *Runner {
	conv := convert.New(convert.Options{Clock: convert.FixedClock(fixedNow)})
	return NewRunner(conv, appendCurrent)
}

func Test_Run_WithQueryAndClipboard_IgnoresClipboard(t *testing.T) {
	r := newTestRunner(false)

	resp := r.Run(Request{Query: "2022-09-10T10:00:00Z", Clipboard: "1970-01-01T00:00:00Z"})

	require.NoError(t, resp.Err)
	assert.Equal(t, SourceQuery, resp.Source)
	require.NotEmpty(t, resp.Candidates)
	assert.Equal(t, "1662804000", resp.Candidates[0].Value)
}

func Test_Run_WithEmptyQuery_UsesClipboard(t *testing.T) {
	r := newTestRunner(false)

	resp := r.Run(Request{Query: "  ", Clipboard: "1970-01-01T00:00:00Z"})

	require.NoError(t, resp.Err)
	assert.Equal(t, SourceClipboard, resp.Source)
	assert.Equal(t, "1970-01-01T00:00:00Z", resp.Input)
	assert.Equal(t, "0", resp.Candidates[0].Value)
}

func Test_Run_WithUnparseableClipboard_DescribesCurrentTime(t *testing.T) {
	r := newTestRunner(true)

	resp := r.Run(Request{Clipboard: "some copied sentence"})

	require.NoError(t, resp.Err)
	assert.Equal(t, SourceNone, resp.Source)
	assert.Equal(t, model.KindSeconds, resp.Candidates[0].Kind)
	assert.Equal(t, "1710493200", resp.Candidates[0].Value)
}

func Test_Run_WithNothing_DescribesCurrentTime(t *testing.T) {
	r := newTestRunner(false)

	resp := r.Run(Request{})

	assert.Equal(t, SourceNone, resp.Source)
	assert.Equal(t, "1710493200", resp.Candidates[0].Value)
}

func Test_Run_WithUnparseableQuery_ReturnsNoMatch(t *testing.T) {
	r := newTestRunner(true)

	resp := r.Run(Request{Query: "not-a-date", Clipboard: "1609459200"})

	assert.Equal(t, SourceQuery, resp.Source)
	assert.Equal(t, "not-a-date", resp.Input)
	assert.Empty(t, resp.Candidates)
	require.Error(t, resp.Err)
	assert.True(t, convert.IsNoMatch(resp.Err))
}

func Test_Run_WithAppendCurrent_AddsCurrentTimeAfterResult(t *testing.T) {
	without := newTestRunner(false).Run(Request{Query: "1609459200"})
	with := newTestRunner(true).Run(Request{Query: "1609459200"})

	require.Greater(t, len(with.Candidates), len(without.Candidates))
	assert.Equal(t, without.Candidates, with.Candidates[:len(without.Candidates)])

	tail := with.Candidates[len(without.Candidates)]
	assert.Equal(t, model.KindSeconds, tail.Kind)
	assert.Equal(t, "Current time in seconds (s)", tail.Label)
}
