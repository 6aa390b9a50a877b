// Command cabinet is a demo host for the file-browser widget: it lists a
// real directory, watches it for changes, and implements the host side of
// the action contract (opening, moving, deleting, creating files) against
// the filesystem. The widget itself never touches the disk.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/cespare/xxhash/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/cabinetui/cabinet"
	"github.com/cabinetui/cabinet/action"
	"github.com/cabinetui/cabinet/engine"
	"github.com/cabinetui/cabinet/file"
)

const copyPathAction = "copy_path"

var (
	configPath = flag.String("config", "", "path to config file")
	startDir   = flag.String("dir", "", "directory to browse (overrides config)")
	debugFlag  = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	dir := cfg.GetString("dir")
	if *startDir != "" {
		dir = *startDir
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve directory: %v\n", err)
		os.Exit(1)
	}

	h := &host{dir: dir, logger: logger}

	opts := cabinet.Options{
		Files:                        listDir(dir, logger),
		FolderID:                     dir,
		OnAction:                     h.handleAction,
		DisableSelection:             cfg.GetBool("disable_selection"),
		ClearSelectionOnOutsideClick: cfg.GetBool("clear_on_outside_click"),
		Logger:                       logger,
		Actions: []action.Action{
			{
				ActionSpec:  engine.ActionSpec{ID: copyPathAction, Requires: engine.OneOrMore},
				Description: "Copy file paths to the clipboard",
			},
		},
	}
	if cfg.GetString("view") == "grid" {
		opts.DefaultViewActionID = action.EnableGridView
	}

	browser, err := cabinet.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create browser: %v\n", err)
		os.Exit(1)
	}
	h.browser = browser
	if cfg.GetBool("show_hidden") {
		if _, err := browser.Dispatch(action.ToggleHiddenFiles, engine.Context{}); err != nil {
			logger.Warn("initial dispatch failed", "error", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("directory watcher unavailable", "error", err)
	} else {
		defer watcher.Close()
		if err := watcher.Add(dir); err != nil {
			logger.Warn("cannot watch directory", "dir", dir, "error", err)
		}
		h.watcher = watcher
	}

	p := tea.NewProgram(h, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("dir", ".")
	v.SetDefault("view", "list")
	v.SetDefault("show_hidden", false)
	v.SetDefault("clear_on_outside_click", true)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		return v, nil
	}

	v.SetConfigName("cabinet")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "cabinet"))
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// No config file is fine, defaults apply.
	}
	return v, nil
}

// fsEventMsg signals a change in the watched directory.
type fsEventMsg struct{}

// host owns the real filesystem side of the demo: it reacts to dispatched
// actions by performing the corresponding disk operations and feeding the
// widget fresh file arrays.
type host struct {
	browser *cabinet.Browser
	watcher *fsnotify.Watcher
	dir     string
	logger  *slog.Logger
}

func (h *host) Init() tea.Cmd {
	return h.listen()
}

func (h *host) listen() tea.Cmd {
	if h.watcher == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-h.watcher.Events; !ok {
			return nil
		}
		return fsEventMsg{}
	}
}

func (h *host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fsEventMsg:
		h.refresh()
		return h, h.listen()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return h, tea.Quit
		}
	}
	_, cmd := h.browser.Update(msg)
	return h, cmd
}

func (h *host) View() string {
	return h.browser.View()
}

// handleAction is the external handler: it observes every successful
// dispatch and implements the host-delegated ones.
func (h *host) handleAction(st *engine.DispatchState) {
	switch st.ActionID {
	case action.OpenFiles, action.OpenSelection:
		targets := st.SelectedFilesForAction
		if p, ok := st.Payload.(action.OpenFilesPayload); ok {
			targets = p.Targets
		}
		for _, rec := range targets {
			if rec.IsDir {
				h.changeDir(recordPath(rec))
				return
			}
		}

	case action.OpenParentFolder:
		h.changeDir(filepath.Dir(h.dir))

	case action.MoveFiles:
		p, ok := st.Payload.(action.MoveFilesPayload)
		if !ok || p.Destination == nil {
			return
		}
		destDir := recordPath(p.Destination)
		for _, src := range p.Sources {
			from := recordPath(src)
			to := filepath.Join(destDir, src.Name)
			if err := os.Rename(from, to); err != nil {
				h.logger.Warn("move failed", "from", from, "to", to, "error", err)
			}
		}
		h.refresh()

	case action.DeleteFiles:
		for _, rec := range st.SelectedFilesForAction {
			if err := os.RemoveAll(recordPath(rec)); err != nil {
				h.logger.Warn("delete failed", "path", recordPath(rec), "error", err)
			}
		}
		h.refresh()

	case action.CreateFolder:
		p, ok := st.Payload.(action.CreateFolderPayload)
		if !ok || p.Name == "" {
			return
		}
		if err := os.Mkdir(filepath.Join(h.dir, p.Name), 0755); err != nil {
			h.logger.Warn("mkdir failed", "name", p.Name, "error", err)
		}
		h.refresh()

	case copyPathAction, action.CopyFiles:
		paths := make([]string, 0, len(st.SelectedFilesForAction))
		for _, rec := range st.SelectedFilesForAction {
			paths = append(paths, recordPath(rec))
		}
		if len(paths) > 0 {
			if err := clipboard.WriteAll(strings.Join(paths, "\n")); err != nil {
				h.logger.Warn("clipboard write failed", "error", err)
			}
		}
	}
}

func (h *host) changeDir(dir string) {
	if h.watcher != nil {
		_ = h.watcher.Remove(h.dir)
		_ = h.watcher.Add(dir)
	}
	h.dir = dir
	if err := h.browser.SetFolder(dir); err != nil {
		h.logger.Warn("set folder failed", "dir", dir, "error", err)
	}
	h.refresh()
}

func (h *host) refresh() {
	h.browser.SetFiles(listDir(h.dir, h.logger))
}

// listDir reads a directory into raw file descriptors. IDs are stable
// hashes of the absolute path so selection survives refreshes.
func listDir(dir string, logger *slog.Logger) []*file.Raw {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("read dir failed", "dir", dir, "error", err)
		return nil
	}
	raws := make([]*file.Raw, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		raw := &file.Raw{
			ID:    fmt.Sprintf("%016x", xxhash.Sum64String(path)),
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
			Extra: map[string]any{"path": path},
		}
		if info, err := entry.Info(); err == nil {
			raw.Size = info.Size()
			raw.ModTime = info.ModTime()
			raw.Symlink = info.Mode()&os.ModeSymlink != 0
		}
		raws = append(raws, raw)
	}
	return raws
}

func recordPath(rec *file.Record) string {
	if p, ok := rec.Extra["path"].(string); ok {
		return p
	}
	return rec.Name
}
