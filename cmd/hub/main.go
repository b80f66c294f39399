package main

import (
	"fmt"
	"os"

	"codeberg.org/podhub/hub/internal/authstate"
	"codeberg.org/podhub/hub/internal/config"
	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/session"
	"codeberg.org/podhub/hub/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	store, err := session.Open()
	if err != nil {
		logger.Fatal("failed to open session store", "error", err)
	}

	client := hubapi.New(cfg, store)
	auth := authstate.New(client, store)
	nav := tui.NewNavigator()

	deps := &tui.Deps{
		Cfg:    cfg,
		Client: client,
		Store:  store,
		Auth:   auth,
	}

	app := tui.NewApp(deps, nav)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// the interceptor needs both pieces before any request can 401
	nav.Bind(p.Send)
	client.SetRedirector(nav)

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running hub: %v\n", err)
		os.Exit(1)
	}
}
