package app

import (
	"github.com/Elpulgo/pullrefresh/internal/config"
	"github.com/Elpulgo/pullrefresh/internal/history"
)

// ConfigReloadedMsg carries a configuration re-read after the file changed.
// Err is set when the new file could not be used.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// initialLoadMsg starts the first loading episode once the program runs.
type initialLoadMsg struct{}

// historyLoadedMsg carries the recent entries after one was recorded.
type historyLoadedMsg struct {
	Entries []history.Entry
	Err     error
}
