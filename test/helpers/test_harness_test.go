package helpers

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ajramos/tuirobot/internal/config"
)

// TestTestHarness_Creation tests basic test harness creation
func TestTestHarness_Creation(t *testing.T) {
	harness := NewTestHarness(t)

	require.NotNil(t, harness.Toolkit)
	require.NotNil(t, harness.Screen)
	require.NotNil(t, harness.Robot)
	require.NotNil(t, harness.Session)

	width, height := harness.Screen.Size()
	assert.Equal(t, 120, width)
	assert.Equal(t, 40, height)
	assert.Equal(t, 2*time.Second, harness.Session.Waiter().Timeout())
}

// TestTestHarness_ScreenSize tests a custom terminal size
func TestTestHarness_ScreenSize(t *testing.T) {
	harness := NewTestHarness(t, WithScreenSize(80, 24))

	width, height := harness.Screen.Size()
	assert.Equal(t, 80, width)
	assert.Equal(t, 24, height)
}

// TestTestHarness_FromConfig tests a harness configured from a config file
func TestTestHarness_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timeout = "1s"
	cfg.Screen = config.ScreenConfig{Width: 100, Height: 30}
	cfg.Journal = config.JournalConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "journal.db")}
	harness := NewTestHarness(t, WithConfig(cfg))

	width, height := harness.Screen.Size()
	assert.Equal(t, 100, width)
	assert.Equal(t, 30, height)
	assert.Equal(t, time.Second, harness.Session.Waiter().Timeout())
	assert.NotNil(t, harness.Session.Recorder())
}

// TestTestHarness_ScreenContent tests that pages are drawn to the simulation screen
func TestTestHarness_ScreenContent(t *testing.T) {
	harness := NewTestHarness(t)

	require.NoError(t, harness.ShowPage("hello", tview.NewTextView().SetText("Hello, Test World!")))
	harness.AssertScreenContains(t, "Hello, Test World!")

	require.NoError(t, harness.RemovePage("hello"))
	assert.True(t, harness.WaitForCondition(func() bool {
		return !strings.Contains(harness.GetScreenContent(), "Hello, Test World!")
	}, time.Second))
	harness.AssertScreenNotContains(t, "Hello, Test World!")
}

// TestTestHarness_WaitForCondition tests condition polling
func TestTestHarness_WaitForCondition(t *testing.T) {
	harness := NewTestHarness(t)

	start := time.Now()
	assert.True(t, harness.WaitForCondition(func() bool {
		return time.Since(start) > 50*time.Millisecond
	}, time.Second))

	assert.False(t, harness.WaitForCondition(func() bool { return false }, 50*time.Millisecond))
}

// TestTestHarness_CleanupIsIdempotent tests explicit cleanup before t.Cleanup runs
func TestTestHarness_CleanupIsIdempotent(t *testing.T) {
	ignore := goleak.IgnoreCurrent()
	t.Cleanup(func() { goleak.VerifyNone(t, ignore) })
	harness := NewTestHarness(t)

	harness.Cleanup()
	harness.Cleanup()

	assert.Error(t, harness.ShowPage("late", tview.NewBox()))
}
