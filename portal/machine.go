package portal

import (
	"membergate/access"
	"net/url"
	"strings"
)

// State of the gated region. Exactly one is active at a time; every
// transition is followed by a full re-render.
type State string

const (
	StateIdle        State = ""
	StateProcessing  State = "processing"
	StateLoginFailed State = "login_failed"
	StateRedirect    State = "redirect"
	StateLogout      State = "logout"
	StateError       State = "error"
	StateDenied      State = "denied"
	StateGranted     State = "granted"
)

// LoginOutcome is the server's answer to a login submit.
type LoginOutcome struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	ClientID     string `json:"clientId"`
	AccessLevels []int  `json:"clientAccessLevels"`
}

// Machine is the single source of truth for the gated region's state. It
// is driven from one goroutine (the Poller loop); its transition methods
// are not safe for concurrent use.
type Machine struct {
	options   *Options
	allLevels []access.AccessLevel

	state     State
	message   string
	loggedIn  bool
	hasAccess bool
	clientID  string

	// navigate fires once on a redirect transition; nothing renders after
	// navigation begins.
	navigate func(target string)
}

func NewMachine(options *Options, allLevels []access.AccessLevel, navigate func(target string)) *Machine {
	return &Machine{options: options, allLevels: allLevels, navigate: navigate}
}

func (m *Machine) State() State     { return m.state }
func (m *Machine) Message() string  { return m.message }
func (m *Machine) LoggedIn() bool   { return m.loggedIn }
func (m *Machine) HasAccess() bool  { return m.hasAccess }
func (m *Machine) ClientID() string { return m.clientID }

// SetLoggedIn seeds the flags from the server-side bootstrap state.
func (m *Machine) SetLoggedIn(loggedIn bool)   { m.loggedIn = loggedIn }
func (m *Machine) SetHasAccess(hasAccess bool) { m.hasAccess = hasAccess }

func (m *Machine) BeginProcessing() {
	m.state = StateProcessing
}

func (m *Machine) Fail(message string) {
	m.state = StateError
	m.message = message
}

// ApplyLoginOutcome runs the grant/deny/redirect decision for a completed
// login. Levels are matched by their ordinal value as returned by the
// server, in the page's required-level order.
func (m *Machine) ApplyLoginOutcome(outcome *LoginOutcome) {
	if outcome.Type != "success" {
		m.state = StateLoginFailed
		m.message = outcome.Message
		return
	}

	m.loggedIn = true
	m.clientID = outcome.ClientID
	m.message = outcome.Message

	if len(outcome.AccessLevels) == 0 {
		m.denyNoAccess()
		return
	}

	granted := false
	for _, required := range m.options.AccessLevels {
		if !containsLevel(outcome.AccessLevels, required) {
			continue
		}
		if m.options.UserLoginRedirect {
			if level := m.levelByOrdinal(required); level != nil && level.RedirectTarget != "" {
				// An unparseable target is silently ignored; normal
				// rendering takes over.
				if target, ok := maybeRedirect(level.RedirectTarget); ok {
					m.hasAccess = true
					m.state = StateRedirect
					m.message = "Redirecting..."
					if m.navigate != nil {
						m.navigate(target)
					}
					return
				}
			}
		}
		granted = true
	}

	if granted {
		m.hasAccess = true
		m.state = StateGranted
	} else {
		m.denyNoAccess()
	}
}

func (m *Machine) ApplyLogoutOutcome(outcomeType, message string) {
	if outcomeType != "success" {
		m.Fail(message)
		return
	}
	m.loggedIn = false
	m.hasAccess = false
	m.clientID = ""
	m.state = StateLogout
	m.message = message
}

// ApplyLoggedCheck updates the logged_in flag only; it never changes the
// render state on its own.
func (m *Machine) ApplyLoggedCheck(loggedIn bool) {
	m.loggedIn = loggedIn
}

// ApplyAccessCheck handles the hourly re-resolution. Only the two defined
// flips move the state; every other combination leaves it unchanged. The
// return value reports whether a re-render is due.
func (m *Machine) ApplyAccessCheck(levels []int) bool {
	if !m.hasAccess && intersects(levels, m.options.AccessLevels) {
		m.hasAccess = true
		m.state = StateGranted
		m.message = "Access Granted."
		return true
	}
	if m.hasAccess && len(levels) == 0 {
		m.hasAccess = false
		m.state = StateDenied
		m.message = alertFragment("warning", m.options.AccessExpired)
		return true
	}
	return false
}

// RequiredLevelNames lists the names of the page's required levels, for the
// denied rendering.
func (m *Machine) RequiredLevelNames() []string {
	names := []string{}
	for _, required := range m.options.AccessLevels {
		if level := m.levelByOrdinal(required); level != nil {
			names = append(names, level.Name)
		}
	}
	return names
}

func (m *Machine) denyNoAccess() {
	m.hasAccess = false
	if m.options.DeniedRedirect != "" {
		if target, ok := maybeRedirect(m.options.DeniedRedirect); ok {
			m.state = StateRedirect
			m.message = "Redirecting..."
			if m.navigate != nil {
				m.navigate(target)
			}
			return
		}
	}
	var listing strings.Builder
	listing.WriteString(m.options.DeniedMessage)
	listing.WriteString(":<ul>")
	for _, name := range m.RequiredLevelNames() {
		listing.WriteString("<li>" + name + "</li>")
	}
	listing.WriteString("</ul>")

	m.state = StateDenied
	m.message = m.message + "<br/>" + alertFragment("warning", listing.String())
}

func (m *Machine) levelByOrdinal(ordinal int) *access.AccessLevel {
	for i := range m.allLevels {
		if m.allLevels[i].Ordinal == ordinal {
			return &m.allLevels[i]
		}
	}
	return nil
}

// maybeRedirect accepts only absolute http(s) URLs; anything else has no
// usable origin and is not navigated to.
func maybeRedirect(raw string) (string, bool) {
	target, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return "", false
	}
	return target.String(), true
}

func containsLevel(levels []int, want int) bool {
	for _, level := range levels {
		if level == want {
			return true
		}
	}
	return false
}

func intersects(a, b []int) bool {
	for _, v := range a {
		if containsLevel(b, v) {
			return true
		}
	}
	return false
}
