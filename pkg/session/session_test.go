package session

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ajramos/tuirobot/internal/config"
	"github.com/ajramos/tuirobot/internal/journal"
	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/finder"
	"github.com/ajramos/tuirobot/pkg/toolkit/simtk"
	"github.com/ajramos/tuirobot/pkg/wait"
)

func newToolkit(t *testing.T) *simtk.Toolkit {
	t.Helper()
	t.Cleanup(func() { goleak.VerifyNone(t) })
	tk := simtk.New()
	t.Cleanup(tk.Shutdown)
	return tk
}

func loginDialog(tk *simtk.Toolkit, owner simtk.Window) (*simtk.Dialog, *simtk.Button, *simtk.Button) {
	ok := tk.NewButton("ok", "OK")
	cancel := tk.NewButton("cancel", "Cancel")
	d := tk.NewDialog("login", owner, true).Add(tk.NewPanel("buttons").Add(ok, cancel))
	return d, ok, cancel
}

func TestNew_NewHierarchyHidesExistingWindows(t *testing.T) {
	tk := newToolkit(t)
	before := tk.NewFrame("before", "")
	require.NoError(t, tk.Show(before))

	s := Open(t, tk)

	_, err := uuid.Parse(s.ID())
	assert.NoError(t, err)
	assert.True(t, s.Context().IsRoot(before), "existing windows are registered")
	assert.True(t, s.Windows().IsReady(before))
	assert.Empty(t, s.Roots())
	assert.True(t, s.IsFiltered(before))

	dialog, ok, _ := loginDialog(tk, before)
	require.NoError(t, tk.Show(dialog))

	assert.Equal(t, []component.Component{dialog}, s.Roots())
	got, err := s.FindByName("ok")
	require.NoError(t, err)
	assert.Same(t, ok, got)
}

func TestNew_WindowShownAfterOpenIsFound(t *testing.T) {
	tk := newToolkit(t)
	before := tk.NewFrame("before", "")
	require.NoError(t, tk.Show(before))
	late := tk.NewFrame("late", "").Add(tk.NewButton("go", "Go"))

	s := Open(t, tk, WithTimeout(2*time.Second))
	assert.True(t, s.IsFiltered(late), "windows not showing yet are ignored")

	timer := time.AfterFunc(100*time.Millisecond, func() { _ = tk.Show(late) })
	defer timer.Stop()

	got, err := s.FindWithTimeout(finder.ByName("late", true), 0)
	require.NoError(t, err)
	assert.Same(t, late, got)
	assert.False(t, s.IsFiltered(late))
	_, err = s.FindByName("go")
	assert.NoError(t, err)
	assert.True(t, s.IsFiltered(before), "showing windows stay filtered")
	assert.Equal(t, []component.Component{late}, s.Roots())
}

func TestSession_DisposedWindowStaysHiddenWhenShownAgain(t *testing.T) {
	tk := newToolkit(t)
	late := tk.NewFrame("late", "")
	s := Open(t, tk)

	s.Dispose(late)
	require.NoError(t, tk.Show(late))
	require.NoError(t, s.RunOnUI(func() error { return nil }))

	assert.True(t, s.IsFiltered(late))
	assert.Empty(t, s.Roots())
}

func TestNew_WithoutNewHierarchy(t *testing.T) {
	tk := newToolkit(t)
	before := tk.NewFrame("before", "")
	require.NoError(t, tk.Show(before))

	s := Open(t, tk, WithNewHierarchy(false))

	assert.Equal(t, []component.Component{before}, s.Roots())
	assert.True(t, s.Contains(before))
}

func TestSession_Lookups(t *testing.T) {
	tk := newToolkit(t)
	s := Open(t, tk)
	main := tk.NewFrame("main", "Main")
	dialog, ok, cancel := loginDialog(tk, main)
	require.NoError(t, tk.Show(main))
	require.NoError(t, tk.Show(dialog))

	buttons, err := s.Find(finder.ByType[*simtk.Button](true))
	require.NoError(t, err)
	assert.Equal(t, []component.Component{ok, cancel}, buttons)

	_, err = s.FindOne(finder.ByType[*simtk.Button](true))
	assert.ErrorIs(t, err, finder.ErrAmbiguous)

	inDialog, err := s.FindIn(dialog, finder.ByName("cancel", true))
	require.NoError(t, err)
	assert.Equal(t, []component.Component{cancel}, inDialog)

	panel := s.ParentOf(ok)
	assert.Equal(t, []component.Component{ok, cancel}, s.ChildrenOf(panel))
	assert.Same(t, dialog, s.ParentOf(panel))

	s.Filter(panel)
	assert.False(t, s.Contains(ok))
	_, err = s.FindByName("ok")
	assert.ErrorIs(t, err, finder.ErrNotFound)
	s.Unfilter(panel)
	assert.True(t, s.Contains(ok))

	var buf bytes.Buffer
	require.NoError(t, s.PrintHierarchy(&buf))
	assert.Contains(t, buf.String(), "Dialog[name='login', showing=true]")
	assert.Contains(t, buf.String(), "    Button[name='cancel', showing=true]")
}

func TestSession_WaitAndAct(t *testing.T) {
	tk := newToolkit(t)
	s := Open(t, tk, WithTimeout(2*time.Second))
	main := tk.NewFrame("main", "Main")
	require.NoError(t, tk.Show(main))

	dialog, ok, _ := loginDialog(tk, main)
	clicked := make(chan struct{}, 1)
	ok.OnClick(func() { clicked <- struct{}{} })
	timer := time.AfterFunc(200*time.Millisecond, func() { _ = tk.Show(dialog) })
	defer timer.Stop()

	got, err := s.FindWithTimeout(finder.ByName("ok", true), 0)
	require.NoError(t, err)
	require.NoError(t, got.(*simtk.Button).Click())
	<-clicked

	all, err := s.FindAllWithTimeout(finder.ByType[*simtk.Button](true), time.Second)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, tk.Close(dialog))
	require.NoError(t, s.Until("login dialog closed", func() (bool, error) {
		return s.Windows().IsClosed(dialog), nil
	}, wait.WithTimeout(time.Second)))
	assert.Equal(t, []component.Component{main}, s.Roots())
}

func TestSession_DisposeAndReset(t *testing.T) {
	tk := newToolkit(t)
	s := Open(t, tk)
	main := tk.NewFrame("main", "Main")
	require.NoError(t, tk.Show(main))
	require.NoError(t, s.RunOnUI(func() error { return nil }))

	s.Dispose(main)
	s.Dispose(main)
	assert.Empty(t, s.Roots())

	require.NoError(t, s.Reset())
	assert.True(t, s.Context().IsRoot(main), "reset registers showing windows again")
	assert.Empty(t, s.Roots(), "and hides them from the next test")

	later := tk.NewFrame("later", "")
	require.NoError(t, tk.Show(later))
	assert.Equal(t, []component.Component{later}, s.Roots())
}

func TestSession_LogsToLogger(t *testing.T) {
	tk := newToolkit(t)
	var buf bytes.Buffer
	s := Open(t, tk, WithLogger(log.New(&buf, "[tuirobot] ", 0)))

	_, err := s.FindWithTimeout(finder.ByName("missing", true), 20*time.Millisecond)
	assert.ErrorIs(t, err, wait.ErrTimeout)

	out := buf.String()
	assert.Contains(t, out, "[tuirobot] session "+s.ID()+" started")
	assert.Contains(t, out, "wait for [name='missing', requireShowing=true] failed after")
}

func TestSession_FromConfigWithJournal(t *testing.T) {
	tk := newToolkit(t)
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Timeout = "1s"
	cfg.LookupScope = config.ScopeAll
	cfg.SearchOrder = config.OrderBreadth
	cfg.Log.File = filepath.Join(dir, "logs", "tuirobot.log")
	cfg.Journal = config.JournalConfig{Enabled: true, Path: filepath.Join(dir, "journal.db")}

	s, err := New(tk, FromConfig(cfg), WithName("login flow"))
	require.NoError(t, err)
	require.NotNil(t, s.Recorder())
	assert.Equal(t, time.Second, s.Waiter().Timeout())
	assert.Equal(t, finder.All, s.Finder().Scope())

	main := tk.NewFrame("main", "")
	hidden := tk.NewButton("hidden", "")
	require.NoError(t, hidden.SetVisible(false))
	main.Add(hidden)
	require.NoError(t, tk.Show(main))

	got, err := s.FindByName("hidden")
	require.NoError(t, err, "scope all finds hidden components")
	assert.Same(t, hidden, got)
	_, err = s.FindWithTimeout(finder.ByName("main", true), 0)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	store, err := journal.Open(context.Background(), cfg.Journal.Path)
	require.NoError(t, err)
	defer store.Close()

	sessions, err := store.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, s.ID(), sessions[0].ID)
	assert.Equal(t, "login flow", sessions[0].Name)
	assert.False(t, sessions[0].EndedAt.IsZero())

	events, err := store.Events(context.Background(), s.ID())
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "opened", events[0].Kind)

	searches, err := store.Searches(context.Background(), s.ID())
	require.NoError(t, err)
	require.Len(t, searches, 2)
	assert.Equal(t, "[name='hidden', requireShowing=false]", searches[0].Matcher)
	assert.Equal(t, 1, searches[1].Found)

	logged, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(logged), "[tuirobot] "), "log lines carry the prefix")
}

func TestSession_SharedJournalStaysOpen(t *testing.T) {
	tk := newToolkit(t)
	store, err := journal.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer store.Close()

	s, err := New(tk, WithJournal(store))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = store.Sessions(context.Background())
	assert.NoError(t, err, "a store passed in is not closed by the session")
}

func TestNew_Errors(t *testing.T) {
	tk := newToolkit(t)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{
			name:    "log dir is a file",
			opts:    []Option{FromConfig(&config.Config{Log: config.LogConfig{File: filepath.Join(blocker, "x.log")}})},
			wantErr: "create log dir",
		},
		{
			name:    "journal dir is a file",
			opts:    []Option{FromConfig(&config.Config{Journal: config.JournalConfig{Enabled: true, Path: filepath.Join(blocker, "j.db")}})},
			wantErr: "open journal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tk, tt.opts...)
			assert.Nil(t, s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpen_ClosesOnCleanup(t *testing.T) {
	tk := newToolkit(t)
	var s *Session
	t.Run("inner", func(t *testing.T) {
		s = Open(t, tk)
	})
	require.NotNil(t, s)
	assert.NoError(t, s.Close(), "already closed by the inner test cleanup")
}
