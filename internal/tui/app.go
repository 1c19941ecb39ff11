package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arj/esimqr/internal/config"
	"github.com/arj/esimqr/internal/database/repository"
	"github.com/arj/esimqr/internal/service"
)

// App ties together views.
type App struct {
	ctx      context.Context
	repos    Repos
	services Services
	cfg      config.Config

	state appState
	modal modalState

	profiles      []repository.Profile
	scans         []repository.Scan
	profileCursor int
	scanCursor    int

	intakeInput string
	intakeFrom  string          // qr | text
	pending     *service.Intake // awaiting user confirmation of a repair
	detailQR    string
	labelInput  string

	pickingImage bool
	fileList     list.Model
	keys         keyMap

	status string
	width  int
	height int
}

type Repos struct {
	Profiles *repository.ProfileRepo
	Scans    *repository.ScanRepo
}

type Services struct {
	Intake      *service.IntakeService
	Export      *service.ExportService
	Maintenance *service.MaintenanceService
}

type appState string

const (
	viewLibrary appState = "library"
	viewIntake  appState = "intake"
	viewDetail  appState = "detail"
	viewScans   appState = "scans"
)

type modalState string

const (
	modalNone          modalState = ""
	modalConfirmRepair modalState = "confirmRepair"
	modalConfirmDelete modalState = "confirmDelete"
	modalConfirmReset  modalState = "confirmReset"
	modalEditLabel     modalState = "editLabel"
)

type keyMap struct {
	Library key.Binding
	Intake  key.Binding
	Image   key.Binding
	Scans   key.Binding
	Export  key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Library: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "library")),
		Intake:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "enter code")),
		Image:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "scan image")),
		Scans:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan log")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export png")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type fileItem struct {
	name string
}

func (f fileItem) Title() string       { return f.name }
func (f fileItem) Description() string { return "" }
func (f fileItem) FilterValue() string { return f.name }

type fileItemDelegate struct{}

func (d fileItemDelegate) Height() int                               { return 1 }
func (d fileItemDelegate) Spacing() int                              { return 0 }
func (d fileItemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d fileItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(fileItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = "> "
	}
	fmt.Fprint(w, prefix+entry.name)
}

type errMsg struct{ error }
type statusMsg string
type profilesMsg []repository.Profile
type scansMsg []repository.Scan
type inspectedMsg struct {
	intake service.Intake
	from   string
}
type acceptDoneMsg struct {
	profile  repository.Profile
	repaired bool
}
type decodeDoneMsg struct {
	payload string
	err     error
}
type filesLoadedMsg struct {
	items []list.Item
	err   error
}
type detailQRMsg string

func New(ctx context.Context, cfg config.Config, repos Repos, services Services) *App {
	fileList := list.New([]list.Item{}, fileItemDelegate{}, 40, 12)
	fileList.Title = "QR images"
	fileList.SetShowStatusBar(false)
	fileList.SetFilteringEnabled(false)
	fileList.SetShowHelp(false)
	fileList.DisableQuitKeybindings()

	return &App{
		ctx:      ctx,
		repos:    repos,
		services: services,
		cfg:      cfg,
		state:    viewLibrary,
		fileList: fileList,
		keys:     newKeyMap(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadProfiles(), a.loadScans())
}

func (a *App) loadProfiles() tea.Cmd {
	return func() tea.Msg {
		rows, err := a.repos.Profiles.List(a.ctx, repository.ProfileFilters{})
		if err != nil {
			return errMsg{err}
		}
		return profilesMsg(rows)
	}
}

func (a *App) loadScans() tea.Cmd {
	return func() tea.Msg {
		log, err := a.repos.Scans.List(a.ctx, 50)
		if err != nil {
			return errMsg{err}
		}
		return scansMsg(log)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		a.fileList.SetWidth(min(60, m.Width-4))
		a.fileList.SetHeight(min(14, m.Height-6))
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.pickingImage {
			return a.handlePickerKey(m)
		}
		if a.state == viewIntake {
			return a.handleIntakeKey(m)
		}
		switch m.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "l", "esc":
			a.state = viewLibrary
			a.status = ""
		case "i":
			a.state = viewIntake
			a.intakeInput = ""
			a.status = ""
		case "o":
			a.pickingImage = true
			return a, a.loadImageFiles()
		case "s":
			a.state = viewScans
			return a, a.loadScans()
		case "up", "k":
			if a.state == viewLibrary && a.profileCursor > 0 {
				a.profileCursor--
			}
			if a.state == viewScans && a.scanCursor > 0 {
				a.scanCursor--
			}
		case "down", "j":
			if a.state == viewLibrary && a.profileCursor < len(a.profiles)-1 {
				a.profileCursor++
			}
			if a.state == viewScans && a.scanCursor < len(a.scans)-1 {
				a.scanCursor++
			}
		case "enter":
			if a.state == viewLibrary && len(a.profiles) > 0 {
				a.state = viewDetail
				a.detailQR = ""
				return a, a.detailCmd(a.profiles[a.profileCursor])
			}
		case "e":
			if p := a.selectedProfile(); p != nil {
				return a, a.exportCmd(*p)
			}
		case "r":
			if p := a.selectedProfile(); p != nil {
				a.modal = modalEditLabel
				a.labelInput = p.Label
			}
		case "d":
			if a.state == viewLibrary && len(a.profiles) > 0 {
				a.modal = modalConfirmDelete
			}
		case "X":
			a.modal = modalConfirmReset
		}
	case profilesMsg:
		a.profiles = []repository.Profile(m)
		if a.profileCursor >= len(a.profiles) {
			a.profileCursor = 0
		}
	case scansMsg:
		a.scans = []repository.Scan(m)
		if a.scanCursor >= len(a.scans) {
			a.scanCursor = 0
		}
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	case filesLoadedMsg:
		if m.err != nil {
			a.pickingImage = false
			a.status = "image scan error: " + m.err.Error()
			return a, nil
		}
		a.fileList.SetItems(m.items)
		a.fileList.Select(0)
	case decodeDoneMsg:
		if m.err != nil {
			a.status = "decode failed: " + m.err.Error()
			return a, nil
		}
		return a, a.inspectCmd(m.payload, "qr")
	case inspectedMsg:
		return a.handleInspected(m)
	case acceptDoneMsg:
		label := m.profile.Label
		if label == "" {
			label = m.profile.SMDPAddress
		}
		if m.repaired {
			a.status = "repaired and saved " + label
		} else {
			a.status = "saved " + label
		}
		a.state = viewLibrary
		return a, tea.Batch(a.loadProfiles(), a.loadScans())
	case detailQRMsg:
		a.detailQR = string(m)
	}
	return a, nil
}

// handleInspected routes a parse result: valid payloads save immediately,
// repairable ones wait in the confirmation modal, failures are logged.
func (a *App) handleInspected(m inspectedMsg) (tea.Model, tea.Cmd) {
	in := m.intake
	switch in.Status {
	case service.IntakeParsed:
		return a, a.acceptCmd(in, m.from)
	case service.IntakeRepairable:
		a.pending = &in
		a.intakeFrom = m.from
		a.modal = modalConfirmRepair
		return a, nil
	default:
		a.status = "could not read code: " + in.Problem
		return a, a.rejectCmd(in)
	}
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewIntake:
		body = a.renderIntake()
	case viewDetail:
		body = a.renderDetail()
	case viewScans:
		body = a.renderScans()
	default:
		body = a.renderLibrary()
	}
	if a.pickingImage {
		body += "\n\n" + a.fileList.View() + "\n" + dimStyle.Render("[enter] Decode  [esc] Cancel")
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	if a.status != "" {
		body += "\n\n" + statusStyle.Render(a.status)
	}
	return body
}

func (a *App) inspectCmd(payload, from string) tea.Cmd {
	return func() tea.Msg {
		return inspectedMsg{intake: a.services.Intake.Inspect(payload), from: from}
	}
}

func (a *App) acceptCmd(in service.Intake, from string) tea.Cmd {
	return func() tea.Msg {
		row, err := a.services.Intake.Accept(a.ctx, in, from)
		if err != nil {
			return errMsg{err}
		}
		return acceptDoneMsg{profile: row, repaired: in.Status == service.IntakeRepairable}
	}
}

func (a *App) rejectCmd(in service.Intake) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.services.Intake.Reject(a.ctx, in.Payload, in.Problem); err != nil {
				return errMsg{err}
			}
			return nil
		},
		a.loadScans(),
	)
}

func (a *App) decodeCmd(path string) tea.Cmd {
	return func() tea.Msg {
		payload, err := a.services.Intake.DecodeImage(path)
		return decodeDoneMsg{payload: payload, err: err}
	}
}

func (a *App) detailCmd(p repository.Profile) tea.Cmd {
	return func() tea.Msg {
		block, err := a.services.Export.Terminal(p)
		if err != nil {
			return errMsg{err}
		}
		return detailQRMsg(block)
	}
}

func (a *App) exportCmd(p repository.Profile) tea.Cmd {
	return func() tea.Msg {
		name := p.Label
		if name == "" {
			name = p.SMDPAddress
		}
		path := "esim-" + sanitizeFilename(name) + ".png"
		if err := a.services.Export.WriteFile(p, path); err != nil {
			return errMsg{err}
		}
		abs, _ := filepath.Abs(path)
		return statusMsg("QR written to " + abs)
	}
}

func (a *App) deleteCmd(p repository.Profile) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.repos.Profiles.Delete(a.ctx, p.ID); err != nil {
				return errMsg{err}
			}
			return statusMsg("profile deleted")
		},
		a.loadProfiles(),
	)
}

func (a *App) saveLabelCmd(p repository.Profile, label string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.repos.Profiles.UpdateLabel(a.ctx, p.ID, strings.TrimSpace(label)); err != nil {
				return errMsg{err}
			}
			return statusMsg("label updated")
		},
		a.loadProfiles(),
	)
}

func (a *App) resetCmd() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if a.services.Maintenance == nil {
				return errMsg{fmt.Errorf("maintenance not configured")}
			}
			if err := a.services.Maintenance.Reset(a.ctx); err != nil {
				return errMsg{err}
			}
			return statusMsg("all profiles and scan history deleted")
		},
		a.loadProfiles(),
		a.loadScans(),
	)
}

func (a *App) loadImageFiles() tea.Cmd {
	return func() tea.Msg {
		cwd, err := os.Getwd()
		if err != nil {
			return filesLoadedMsg{err: err}
		}
		entries, err := os.ReadDir(cwd)
		if err != nil {
			return filesLoadedMsg{err: err}
		}
		var items []list.Item
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".png", ".jpg", ".jpeg":
				items = append(items, fileItem{name: entry.Name()})
			}
		}
		return filesLoadedMsg{items: items}
	}
}

func (a *App) handleIntakeKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}
	switch m.Type {
	case tea.KeyEsc:
		a.state = viewLibrary
		a.status = ""
	case tea.KeyEnter:
		payload := strings.TrimSpace(a.intakeInput)
		if payload == "" {
			a.status = "paste or type an activation code"
			return a, nil
		}
		return a, a.inspectCmd(payload, "text")
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.intakeInput) > 0 {
			a.intakeInput = a.intakeInput[:len(a.intakeInput)-1]
		}
	case tea.KeySpace:
		a.intakeInput += " "
	case tea.KeyRunes:
		a.intakeInput += string(m.Runes)
	}
	return a, nil
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.pickingImage = false
		return a, nil
	case "q", "ctrl+c":
		return a, tea.Quit
	case "enter":
		item, ok := a.fileList.SelectedItem().(fileItem)
		a.pickingImage = false
		if !ok || item.name == "" {
			a.status = "no image selected"
			return a, nil
		}
		a.status = "decoding " + item.name + "..."
		return a, a.decodeCmd(item.name)
	}
	var cmd tea.Cmd
	a.fileList, cmd = a.fileList.Update(m)
	return a, cmd
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmRepair:
		switch m.String() {
		case "y", "Y", "enter":
			if a.pending == nil {
				a.modal = modalNone
				return a, nil
			}
			in := *a.pending
			a.pending = nil
			a.modal = modalNone
			return a, a.acceptCmd(in, a.intakeFrom)
		case "n", "N", "esc":
			a.modal = modalNone
			if a.pending == nil {
				return a, nil
			}
			in := *a.pending
			a.pending = nil
			a.status = "discarded; nothing saved"
			return a, a.rejectCmd(in)
		}
	case modalConfirmDelete:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			if p := a.selectedProfile(); p != nil {
				return a, a.deleteCmd(*p)
			}
		case "n", "N", "esc":
			a.modal = modalNone
		}
	case modalConfirmReset:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			return a, a.resetCmd()
		case "n", "N", "esc":
			a.modal = modalNone
		}
	case modalEditLabel:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.labelInput = ""
		case tea.KeyEnter:
			a.modal = modalNone
			if p := a.selectedProfile(); p != nil {
				return a, a.saveLabelCmd(*p, a.labelInput)
			}
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(a.labelInput) > 0 {
				a.labelInput = a.labelInput[:len(a.labelInput)-1]
			}
		case tea.KeySpace:
			a.labelInput += " "
		case tea.KeyRunes:
			a.labelInput += string(m.Runes)
		}
	}
	return a, nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func (a *App) renderLibrary() string {
	title := titleStyle.Render("eSIM Profiles")
	if len(a.profiles) == 0 {
		return title + "\n\nNo profiles yet. Press i to enter a code or o to decode a QR image.\n\n" + a.helpLine()
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	for i, p := range a.profiles {
		prefix := "  "
		if i == a.profileCursor {
			prefix = "> "
		}
		label := p.Label
		if label == "" {
			label = "(unlabeled)"
		}
		line := fmt.Sprintf("%s%-24s %-28s %s", prefix, truncate(label, 24), truncate(p.SMDPAddress, 28), p.CreatedAt.Format(a.dateFormat()))
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("[enter] Detail  [d] Delete  [r] Label") + "\n" + a.helpLine())
	return b.String()
}

func (a *App) renderIntake() string {
	title := titleStyle.Render("Enter Activation Code")
	return title + "\n\nPaste the LPA string or anything that looks like one:\n\n> " +
		a.intakeInput + "\n\n" + dimStyle.Render("[enter] Parse  [esc] Back")
}

func (a *App) renderDetail() string {
	p := a.selectedProfile()
	if p == nil {
		return a.renderLibrary()
	}
	title := titleStyle.Render("Profile Detail")
	var b strings.Builder
	b.WriteString(title + "\n\n")
	label := p.Label
	if label == "" {
		label = "(unlabeled)"
	}
	b.WriteString(fmt.Sprintf("Label:         %s\n", label))
	b.WriteString(fmt.Sprintf("SM-DP+:        %s\n", p.SMDPAddress))
	b.WriteString(fmt.Sprintf("Code:          %s\n", p.ActivationCode))
	if p.ConfirmationCode != "" {
		b.WriteString(fmt.Sprintf("Confirmation:  %s\n", p.ConfirmationCode))
	}
	b.WriteString(fmt.Sprintf("Added:         %s (%s)\n", p.CreatedAt.Format(a.dateFormat()), p.Source))
	if a.detailQR != "" {
		b.WriteString("\n" + a.detailQR)
	}
	b.WriteString("\n" + dimStyle.Render("[e] Export PNG  [r] Label  [esc] Back"))
	return b.String()
}

func (a *App) renderScans() string {
	title := titleStyle.Render("Scan Log")
	if len(a.scans) == 0 {
		return title + "\n\nNothing scanned yet.\n\n" + a.helpLine()
	}
	var b strings.Builder
	b.WriteString(title + "\n\n")
	for i, s := range a.scans {
		prefix := "  "
		if i == a.scanCursor {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%-10s %-44s %s", prefix, s.Outcome, truncate(s.Payload, 44), truncate(s.Problem, 40))
		if s.Outcome == "failed" {
			line = warnStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + a.helpLine())
	return b.String()
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmRepair:
		if a.pending == nil {
			return ""
		}
		return titleStyle.Render("Repair activation code?") + "\n" +
			warnStyle.Render("Problem: "+a.pending.Problem) + "\n" +
			"Original: " + a.pending.Payload + "\n" +
			"Fixed:    " + a.pending.Fixed + "\n" +
			dimStyle.Render("[y] Save fixed  [n] Discard")
	case modalConfirmDelete:
		return titleStyle.Render("Delete profile?") + "\nThe activation code cannot be recovered from this app.\n" +
			dimStyle.Render("[y] Yes  [n] No")
	case modalConfirmReset:
		return titleStyle.Render("Delete ALL profiles and scan history?") + "\n" +
			dimStyle.Render("[y] Yes  [n] No")
	case modalEditLabel:
		return titleStyle.Render("Edit label") + "\n" + a.labelInput + "\n" +
			dimStyle.Render("[enter] Save  [esc] Cancel")
	}
	return ""
}

func (a *App) helpLine() string {
	parts := make([]string, 0, 6)
	for _, binding := range []key.Binding{a.keys.Intake, a.keys.Image, a.keys.Scans, a.keys.Export, a.keys.Library, a.keys.Quit} {
		help := binding.Help()
		parts = append(parts, "["+help.Key+"] "+help.Desc)
	}
	return dimStyle.Render(strings.Join(parts, "  "))
}

func (a *App) selectedProfile() *repository.Profile {
	if len(a.profiles) == 0 || a.profileCursor >= len(a.profiles) {
		return nil
	}
	p := a.profiles[a.profileCursor]
	return &p
}

func (a *App) dateFormat() string {
	if a.cfg.UI.DateFormat != "" {
		return a.cfg.UI.DateFormat
	}
	return "02/01/2006 15:04"
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return time.Now().UTC().Format("20060102-150405")
	}
	return out
}
