package portal

import (
	"html/template"
	"strings"
)

// Fragments are the stored HTML pieces the render function assembles; they
// come from the page embed, not from user input.
type Fragments struct {
	LoginForm         string
	RestrictedContent string
	Footer            string
	Spinner           string
}

const DefaultSpinner = `<div class="d-flex justify-content-center"><div class="spinner-border" role="status"><span class="sr-only">Loading...</span></div></div>`

var alertTemplate = template.Must(template.New("alert").Parse(
	`<div class="alert alert-{{.Class}}">{{.Message}}</div>`))

var footerTemplate = template.Must(template.New("footer").Parse(
	`<div class="modal__footer" id="loginFooter">
    <a href="https://clients.mindbodyonline.com/ws.asp?&amp;studioid={{.SiteID}}" class="btn btn-primary" id="MBOSite">{{.ManageOnMBO}}</a>
    <a class="btn btn-primary" id="MBOLogout">Logout</a>
</div>`))

var loginFormTemplate = template.Must(template.New("loginForm").Parse(
	`<div id="mzLogInContainer">
    <h3>{{.FormHeading}}</h3>
    <form id="mzLogIn" method="post">
        <input type="email" name="email" placeholder="email" required/>
        <input type="password" name="password" placeholder="password" required/>
        <button type="submit" class="btn btn-primary">Login</button>
        <a href="#" id="mzPasswordReset">{{.PasswordResetRequest}}</a>
    </form>
</div>`))

func alertFragment(class, message string) string {
	var out strings.Builder
	// message may carry markup built by the machine itself.
	if err := alertTemplate.Execute(&out, map[string]interface{}{"Class": class, "Message": template.HTML(message)}); err != nil {
		return message
	}
	return out.String()
}

// BuildFooter renders the gated region's footer for the given options.
func BuildFooter(options *Options) string {
	var out strings.Builder
	if err := footerTemplate.Execute(&out, map[string]string{"SiteID": options.SiteID, "ManageOnMBO": options.ManageOnMBO}); err != nil {
		return ""
	}
	return out.String()
}

// BuildLoginForm renders the login form fragment for the given options.
func BuildLoginForm(options *Options) string {
	var out strings.Builder
	if err := loginFormTemplate.Execute(&out, map[string]string{
		"FormHeading":          options.FormHeading,
		"PasswordResetRequest": options.PasswordResetRequest,
	}); err != nil {
		return ""
	}
	return out.String()
}

// Render is a pure function of the machine snapshot and the stored
// fragments. Calling it twice for the same state yields the same output.
func Render(m *Machine, f Fragments) string {
	spinner := f.Spinner
	if spinner == "" {
		spinner = DefaultSpinner
	}

	switch m.State() {
	case StateProcessing:
		return spinner
	case StateLoginFailed:
		return f.LoginForm + alertFragment("warning", m.Message())
	case StateRedirect:
		return alertFragment("success", m.Message()) + spinner
	case StateLogout:
		return alertFragment("info", m.Message()) + f.LoginForm
	case StateError:
		return alertFragment("danger", m.Message())
	case StateDenied:
		return m.Message() + f.Footer
	case StateGranted:
		return alertFragment("success", m.Message()) + f.RestrictedContent + f.Footer
	default:
		if m.HasAccess() {
			return f.RestrictedContent + f.Footer
		}
		return f.LoginForm
	}
}
