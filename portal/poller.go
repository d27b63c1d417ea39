package portal

import (
	"context"
	"time"
)

// Gateway abstracts the server API the poller talks to.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*LoginOutcome, error)
	Logout(ctx context.Context) (string, error)
	CheckLogged(ctx context.Context) (bool, error)
	CheckAccess(ctx context.Context) ([]int, error)
}

type PollerConfig struct {
	LoggedInInterval time.Duration
	AccessInterval   time.Duration
	LoggedInCap      int
	AccessCap        int
}

func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		LoggedInInterval: 60 * time.Second,
		AccessInterval:   3600 * time.Second,
		LoggedInCap:      1000,
		AccessCap:        500,
	}
}

// Poller drives the machine from two fixed-interval timers plus user
// events. Network calls never block the loop; their completions come back
// as queued events, so the last response to arrive wins. There is no
// cancellation of in-flight requests; the caps only bound total request
// volume per page view.
type Poller struct {
	machine   *Machine
	gateway   Gateway
	fragments Fragments
	config    PollerConfig

	render func(html string)

	// checks is a single counter shared between both polls.
	checks int

	events chan func()
}

func NewPoller(machine *Machine, gateway Gateway, fragments Fragments, config PollerConfig, render func(html string)) *Poller {
	return &Poller{
		machine:   machine,
		gateway:   gateway,
		fragments: fragments,
		config:    config,
		render:    render,
		events:    make(chan func(), 16),
	}
}

// Run owns the machine until ctx is done. All machine transitions happen
// on this goroutine.
func (p *Poller) Run(ctx context.Context) {
	loggedTicker := time.NewTicker(p.config.LoggedInInterval)
	defer loggedTicker.Stop()
	accessTicker := time.NewTicker(p.config.AccessInterval)
	defer accessTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-p.events:
			event()
		case <-loggedTicker.C:
			p.pollLogged(ctx)
		case <-accessTicker.C:
			p.pollAccess(ctx)
		}
	}
}

// SubmitLogin queues a login form submit. Safe to call from any goroutine.
func (p *Poller) SubmitLogin(ctx context.Context, email, password string) {
	p.events <- func() {
		p.machine.BeginProcessing()
		p.renderNow()
		go func() {
			outcome, err := p.gateway.Login(ctx, email, password)
			p.events <- func() {
				if err != nil {
					p.machine.Fail("ERROR LOGGING IN")
				} else {
					p.machine.ApplyLoginOutcome(outcome)
				}
				p.renderNow()
			}
		}()
	}
}

// ClickLogout queues a logout click. Safe to call from any goroutine.
func (p *Poller) ClickLogout(ctx context.Context) {
	p.events <- func() {
		p.machine.BeginProcessing()
		p.renderNow()
		go func() {
			message, err := p.gateway.Logout(ctx)
			p.events <- func() {
				if err != nil {
					p.machine.Fail("ERROR LOGGING OUT")
				} else {
					p.machine.ApplyLogoutOutcome("success", message)
				}
				p.renderNow()
			}
		}()
	}
}

func (p *Poller) pollLogged(ctx context.Context) {
	p.checks++
	if p.checks >= p.config.LoggedInCap {
		return
	}
	go func() {
		loggedIn, err := p.gateway.CheckLogged(ctx)
		if err != nil {
			return
		}
		// Flag update only; never re-renders on its own.
		p.events <- func() {
			p.machine.ApplyLoggedCheck(loggedIn)
		}
	}()
}

func (p *Poller) pollAccess(ctx context.Context) {
	if !p.machine.LoggedIn() {
		return
	}
	p.checks++
	if p.checks >= p.config.AccessCap {
		return
	}
	go func() {
		levels, err := p.gateway.CheckAccess(ctx)
		if err != nil {
			return
		}
		p.events <- func() {
			if p.machine.ApplyAccessCheck(levels) {
				p.renderNow()
			}
		}
	}()
}

func (p *Poller) renderNow() {
	if p.render != nil {
		p.render(Render(p.machine, p.fragments))
	}
}
