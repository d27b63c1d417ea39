package portal

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestRender(t *testing.T) {
	RegisterTestingT(t)

	options := DefaultOptions()
	options.SiteID = "12345"
	fragments := Fragments{
		LoginForm:         BuildLoginForm(&options),
		RestrictedContent: `<p>members only</p>`,
		Footer:            BuildFooter(&options),
	}

	t.Run("should show the login form to an anonymous visitor", func(t *testing.T) {
		m := NewMachine(&options, testLevels(), nil)
		html := Render(m, fragments)
		Expect(html).To(ContainSubstring("mzLogIn"))
		Expect(html).ToNot(ContainSubstring("members only"))
	})

	t.Run("should show the content and footer to a visitor with access", func(t *testing.T) {
		m := NewMachine(&options, testLevels(), nil)
		m.SetLoggedIn(true)
		m.SetHasAccess(true)
		html := Render(m, fragments)
		Expect(html).To(ContainSubstring("members only"))
		Expect(html).To(ContainSubstring("loginFooter"))
		Expect(html).ToNot(ContainSubstring("mzLogIn\""))
	})

	t.Run("should show the spinner while processing", func(t *testing.T) {
		m := NewMachine(&options, testLevels(), nil)
		m.BeginProcessing()
		Expect(Render(m, fragments)).To(Equal(DefaultSpinner))
	})

	t.Run("should show the form plus a warning after a failed login", func(t *testing.T) {
		m := NewMachine(&options, testLevels(), nil)
		m.ApplyLoginOutcome(&LoginOutcome{Type: "error", Message: "Invalid Login"})
		html := Render(m, fragments)
		Expect(html).To(ContainSubstring("mzLogIn"))
		Expect(html).To(ContainSubstring(`alert-warning`))
		Expect(html).To(ContainSubstring("Invalid Login"))
	})

	t.Run("should show a success alert with the content after a grant", func(t *testing.T) {
		m := NewMachine(&options, testLevels(), nil)
		m.ApplyLoginOutcome(successOutcome(1))
		html := Render(m, fragments)
		Expect(html).To(ContainSubstring("alert-success"))
		Expect(html).To(ContainSubstring("Welcome, Ann"))
		Expect(html).To(ContainSubstring("members only"))
	})

	t.Run("should render identically for the same snapshot", func(t *testing.T) {
		m := NewMachine(&options, testLevels(), nil)
		m.ApplyLoginOutcome(successOutcome(1))
		Expect(Render(m, fragments)).To(Equal(Render(m, fragments)))
	})
}

func TestBuildFragments(t *testing.T) {
	RegisterTestingT(t)

	options := DefaultOptions()
	options.SiteID = "12345"
	options.FormHeading = "Sign in, please"

	t.Run("should point the footer at the configured studio", func(t *testing.T) {
		footer := BuildFooter(&options)
		Expect(footer).To(ContainSubstring("studioid=12345"))
		Expect(footer).To(ContainSubstring("Visit Mindbody Site"))
		Expect(footer).To(ContainSubstring("MBOLogout"))
	})

	t.Run("should carry the form heading and reset label", func(t *testing.T) {
		form := BuildLoginForm(&options)
		Expect(form).To(ContainSubstring("Sign in, please"))
		Expect(form).To(ContainSubstring("Forgot My Password"))
	})
}
