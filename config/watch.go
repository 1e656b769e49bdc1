package config

import (
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch reloads the config file on write and hands the fresh config to
// onChange. Lets fee and slot defaults be tuned without a restart.
func Watch(logger *slog.Logger, onChange func(*AppConfig)) error {
	file := viper.ConfigFileUsed()
	if file == "" {
		return fmt.Errorf("no config file in use, nothing to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	go func() {
		for {
			select {
			case event := <-watcher.Events:
				if event.Op&fsnotify.Write == fsnotify.Write {
					c, err := Load(file)
					if err != nil {
						logger.Error("error reloading config", slog.Any("error", err))
						continue
					}
					logger.Info("config reloaded", slog.String("file", file))
					onChange(c)
				}
			case err := <-watcher.Errors:
				logger.Debug("error watching config", slog.Any("error", err))
			}
		}
	}()

	if err := watcher.Add(file); err != nil {
		return fmt.Errorf("failed to watch config file: %w", err)
	}

	return nil
}
