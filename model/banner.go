package model

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/innerlog/journal-tui/style"
)

// BannerModel renders the one-line header:
//
//	InnerLog v0.4 · Maya <maya@example.com>
//
// It is populated once at startup and is purely static.
type BannerModel struct {
	version     string
	email       string
	displayName string
	width       int
}

// NewBanner returns a BannerModel with a default version string.
func NewBanner(version string) BannerModel {
	if version == "" {
		version = "dev"
	}
	return BannerModel{version: version, width: 80}
}

// SetIdentity sets the user shown in the header.
func (m *BannerModel) SetIdentity(email, displayName string) {
	m.email = email
	m.displayName = displayName
}

// SetWidth resizes the header.
func (m *BannerModel) SetWidth(width int) {
	m.width = width
}

// Init satisfies tea.Model.
func (m BannerModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model. The banner is static.
func (m BannerModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the header line.
func (m BannerModel) View() string {
	title := style.BannerTitle.Render(fmt.Sprintf("InnerLog %s", m.version))
	if m.email == "" {
		return title
	}
	who := m.displayName
	if who == "" {
		who = m.email
	} else {
		who = fmt.Sprintf("%s <%s>", m.displayName, m.email)
	}
	return title + style.BannerDetail.Render(" · "+who)
}
