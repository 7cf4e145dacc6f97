package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"council/council"
	"council/model"
	"council/provider"
	"council/storage"
)

// Dashboard focus targets, in Tab order.
const (
	focusIndustry = iota
	focusRole
	focusGoal
	focusTemplates
	focusHistory
	focusCount
)

const sidebarWidth = 32

type AppView struct {
	ctrl *model.Controller

	providerID     string
	prov           provider.Provider
	providerStatus string
	providerOK     bool

	// UI Components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	cache    *renderCache

	// Window state
	width  int
	height int
	ready  bool

	showHelp  bool
	showGuide bool

	// Acknowledge modal (for warnings/errors requiring only acknowledgement)
	showAcknowledgeModal  bool
	acknowledgeModalTitle string
	acknowledgeModalMsg   string
	acknowledgeModalType  ModalType

	statusMsg string

	// Dashboard
	focus         int
	quickStart    [3]textinput.Model
	presetIdx     [2]int
	templates     []council.Template
	templateIdx   int
	history       []storage.Session
	historyIdx    int
	historyFilter textinput.Model
	filteringHist bool

	// Chat
	messageOffsets []int
	highlightIdx   int

	showMessageSearch    bool
	messageSearchInput   textinput.Model
	messageSearchResults []storage.MessageMatch
	selectedSearchIdx    int
}

// NewAppView builds the TUI around ctrl. prov is only used for the startup
// ping and the status bar; runs go through the controller.
func NewAppView(ctrl *model.Controller, providerID string, prov provider.Provider) AppView {
	ta := textarea.New()
	ta.Placeholder = "Describe your goal or reply to the council..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter submits
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	var qs [3]textinput.Model
	for i, prompt := range []string{"Industry: ", "Role:     ", "Goal:     "} {
		qs[i] = textinput.New()
		qs[i].Prompt = prompt
		qs[i].CharLimit = 200
	}
	qs[focusIndustry].Placeholder = council.Industries[0] + " (↑/↓ for presets)"
	qs[focusRole].Placeholder = council.Roles[0] + " (↑/↓ for presets)"
	qs[focusGoal].Placeholder = "What should the council achieve?"
	qs[focusIndustry].Focus()

	historyFilter := textinput.New()
	historyFilter.Prompt = "Filter: "
	historyFilter.CharLimit = 64

	messageSearchInput := textinput.New()
	messageSearchInput.Prompt = "Search: "
	messageSearchInput.CharLimit = 100

	a := AppView{
		ctrl:               ctrl,
		providerID:         providerID,
		prov:               prov,
		providerStatus:     "checking...",
		viewport:           viewport.New(0, 0),
		textarea:           ta,
		spinner:            sp,
		cache:              newRenderCache(),
		quickStart:         qs,
		presetIdx:          [2]int{-1, -1},
		templates:          council.Templates(),
		historyFilter:      historyFilter,
		messageSearchInput: messageSearchInput,
		highlightIdx:       -1,
	}
	a.refreshHistory()
	return a
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		a.spinner.Tick,
		a.ctrl.WaitForEvent(),
	}
	if a.prov != nil {
		cmds = append(cmds, provider.PingProvider(a.providerID, a.prov))
	}
	return tea.Batch(cmds...)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading council..."
	}

	// Modal rendering order (top to bottom layers)
	if a.showAcknowledgeModal {
		return RenderAcknowledgeModal(
			a.acknowledgeModalTitle,
			a.acknowledgeModalMsg,
			a.acknowledgeModalType,
			a.width,
			a.height,
		)
	}
	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}
	if a.showGuide {
		return renderGuideModal(a.width, a.height)
	}
	if a.showMessageSearch {
		return renderMessageSearch(a.messageSearchInput, a.messageSearchResults, a.selectedSearchIdx, a.currentRoster(), a.width, a.height)
	}

	if a.ctrl.Snapshot().View == model.ViewChat {
		return a.renderChat()
	}
	return a.renderDashboard()
}

func (a *AppView) acknowledge(title, msg string, t ModalType) {
	a.showAcknowledgeModal = true
	a.acknowledgeModalTitle = title
	a.acknowledgeModalMsg = msg
	a.acknowledgeModalType = t
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showGuide = false
	a.showMessageSearch = false
	a.showAcknowledgeModal = false
}

func (a AppView) currentRoster() council.Roster {
	if sess, ok := a.ctrl.CurrentSession(); ok {
		return sess.Roster()
	}
	return council.ResolveRoster(council.DefaultTemplateID)
}
