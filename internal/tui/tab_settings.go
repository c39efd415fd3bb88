package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/nestegg/internal/cli"
	"github.com/theirongolddev/nestegg/internal/config"
	"github.com/theirongolddev/nestegg/internal/money"
	"github.com/theirongolddev/nestegg/internal/tui/components"
	"github.com/theirongolddev/nestegg/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldRetirementYear = iota
	settingsFieldIncome
	settingsFieldExpenses
	settingsFieldRetirementRate
	settingsFieldTheme
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return a, nil, true
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	p := a.sess.Params()
	a.settings.editing = true

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldRetirementYear:
		ti.Placeholder = strconv.Itoa(a.sess.CurrentYear() + 30)
		ti.SetValue(strconv.Itoa(p.RetirementYear))
	case settingsFieldIncome:
		ti.Placeholder = "monthly, e.g. 8500"
		ti.SetValue(money.Encode(p.MonthlyIncome))
	case settingsFieldExpenses:
		ti.Placeholder = "monthly, e.g. 5200"
		ti.SetValue(money.Encode(p.MonthlyExpenses))
	case settingsFieldRetirementRate:
		ti.Placeholder = "percent or preset (" + strings.Join(config.RateNames(a.cfg), ", ") + ")"
		ti.SetValue(strconv.FormatFloat(p.RetirementRate, 'f', -1, 64))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(theme.Active.Name)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		a.settingsSave(strings.TrimSpace(a.settings.input.Value()))
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies one edited field. Plan fields go through the session
// so they are validated; the theme is written to the config file.
func (a *App) settingsSave(val string) {
	if a.settings.cursor == settingsFieldTheme {
		if !theme.Known(val) {
			a.setFlash(fmt.Sprintf("Unknown theme %q", val), true)
			return
		}
		theme.SetActive(val)
		a.cfg.Appearance.Theme = val
		if err := a.saveConfig(a.cfg); err != nil {
			a.setFlash("Theme applied, but saving config failed: "+err.Error(), true)
			return
		}
		a.setFlash("Theme saved", false)
		return
	}

	p := a.sess.Params()
	var err error
	switch a.settings.cursor {
	case settingsFieldRetirementYear:
		p.RetirementYear, err = strconv.Atoi(val)
	case settingsFieldIncome:
		p.MonthlyIncome, err = money.Parse(val)
	case settingsFieldExpenses:
		p.MonthlyExpenses, err = money.Parse(val)
	case settingsFieldRetirementRate:
		p.RetirementRate, err = config.ResolveRate(a.cfg, val)
	}
	if err == nil {
		err = a.sess.SetParams(p)
	}
	if err != nil {
		a.setFlash("Not saved: "+err.Error(), true)
		return
	}
	a.persist("Plan updated")
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	p := a.sess.Params()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	fields := []struct{ label, value string }{
		{"Retirement Year", strconv.Itoa(p.RetirementYear)},
		{"Monthly Income", cli.FormatMoney(p.MonthlyIncome)},
		{"Monthly Expenses", cli.FormatMoney(p.MonthlyExpenses)},
		{"Retirement Rate", cli.FormatRate(p.RetirementRate)},
		{"Theme", theme.Active.Name},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}
	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	st := a.sess.State()
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Session:        ") + valueStyle.Render(st.ID) + "\n")
	infoBody.WriteString(labelStyle.Render("Current year:   ") + valueStyle.Render(strconv.Itoa(st.CurrentYear)) + "\n")
	infoBody.WriteString(labelStyle.Render("Last change:    ") + valueStyle.Render(st.UpdatedAt.Local().Format("2006-01-02 15:04")) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:    ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Plan", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Session", infoBody.String(), cw))
	return b.String()
}
