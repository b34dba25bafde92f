package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/innerlog/journal-tui/app"
	"github.com/innerlog/journal-tui/client"
	"github.com/innerlog/journal-tui/config"
	"github.com/innerlog/journal-tui/logging"
	"github.com/innerlog/journal-tui/session"
	"github.com/innerlog/journal-tui/style"
)

const version = "v0.5.0"

const defaultServer = "http://localhost:5000"

func main() {
	var (
		serverFlag   = flag.String("server", "", "backend base URL")
		emailFlag    = flag.String("email", "", "account email")
		nameFlag     = flag.String("name", "", "display name")
		passwordFlag = flag.String("password", "", "password; logs in before starting")
		themeFlag    = flag.String("theme", "", "color theme (dark, light)")
		debugFlag    = flag.Bool("debug", false, "verbose logging")
		noColorFlag  = flag.Bool("no-color", false, "disable colors")
		versionFlag  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println("innerlog " + version)
		return
	}

	stateDir := stateDirPath()
	cfg := config.Load(stateDir)
	log := logging.New(stateDir, *debugFlag)
	defer log.Sync()

	// Resolution order: flag, then environment, then saved config.
	server := firstNonEmpty(*serverFlag, os.Getenv("INNERLOG_SERVER"), cfg.ServerURL, defaultServer)
	email := firstNonEmpty(*emailFlag, os.Getenv("INNERLOG_EMAIL"), cfg.Email)
	name := firstNonEmpty(*nameFlag, cfg.DisplayName)
	theme := firstNonEmpty(*themeFlag, cfg.Theme)

	if email == "" {
		fmt.Fprintln(os.Stderr, "innerlog: no account email; pass --email or set INNERLOG_EMAIL")
		os.Exit(1)
	}

	if *noColorFlag {
		lipgloss.SetColorProfile(0)
	}
	style.SetTheme(theme)

	api := client.New(server, log)
	api.SetToken(os.Getenv("INNERLOG_TOKEN"))

	if *passwordFlag != "" {
		resp, err := api.Login(email, *passwordFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "innerlog: login failed: %v\n", err)
			os.Exit(1)
		}
		if resp.UserName != "" {
			name = resp.UserName
		}
	}

	cfg.ServerURL = server
	cfg.Email = email
	cfg.DisplayName = name
	cfg.Theme = theme
	if err := config.Save(stateDir, cfg); err != nil {
		log.Warn("could not save config", zap.Error(err))
	}

	id := session.Identity{Email: email, DisplayName: name}
	store := session.NewStore(id)
	ch := client.NewChannel(server, api.Token, email, log)
	defer ch.Close()

	m := app.New(api, ch, store, version, log)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// The channel needs the program to deliver events into; hand it over
	// once Run is accepting messages.
	go p.Send(app.ProgramReady{Program: p})

	log.Info("starting", zap.String("server", server), zap.String("email", email))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "innerlog: %v\n", err)
		os.Exit(1)
	}
}

func stateDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".innerlog")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
