package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads the configuration when the config file changes, so edits
// to wake aliases or the TTS toggle take effect without a restart.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	logger   zerolog.Logger
	onReload func(*Config)
	done     chan struct{}
}

// NewWatcher watches the config directory and invokes onReload with the
// freshly loaded configuration after each write to config.yaml.
func NewWatcher(logger zerolog.Logger, onReload func(*Config)) (*Watcher, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(configDir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		path:     filepath.Join(configDir, "config.yaml"),
		logger:   logger.With().Str("component", "config-watcher").Logger(),
		onReload: onReload,
		done:     make(chan struct{}),
	}

	go w.watchLoop()

	return w, nil
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path || !event.Has(fsnotify.Write) {
				continue
			}
			cfg, err := Load()
			if err != nil {
				w.logger.Warn().Err(err).Msg("Config reload failed")
				continue
			}
			w.logger.Info().Msg("Config reloaded")
			if w.onReload != nil {
				w.onReload(cfg)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Config watcher error")
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
