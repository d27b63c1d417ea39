package portal

import (
	"fmt"
	"membergate/bizerror"
	"strconv"
	"strings"
)

// Options is the typed form of the page-embed attributes. Keys outside the
// recognized set are rejected, never silently absorbed.
type Options struct {
	SiteID               string
	AccessLevels         []int
	DeniedMessage        string
	DeniedRedirect       string
	UserLoginRedirect    bool
	FormHeading          string
	AccessExpired        string
	ManageOnMBO          string
	PasswordResetRequest string
}

func DefaultOptions() Options {
	return Options{
		AccessLevels:         []int{1},
		DeniedMessage:        "Access to this content requires one of",
		FormHeading:          "Login with your Mindbody account to access this content.",
		AccessExpired:        "Looks like your access has expired.",
		ManageOnMBO:          "Visit Mindbody Site",
		PasswordResetRequest: "Forgot My Password",
	}
}

// ParseOptions applies attrs over the defaults. access_levels is a comma
// separated list of level ordinals; user_login_redirect accepts 0/1/true/
// false. call_to_action is a recognized legacy alias for form_heading.
func ParseOptions(attrs map[string]string) (*Options, error) {
	options := DefaultOptions()
	for key, value := range attrs {
		switch key {
		case "siteid":
			options.SiteID = value
		case "access_levels":
			levels, err := parseLevelList(value)
			if err != nil {
				return nil, &bizerror.ErrBadParam{Cause: err}
			}
			options.AccessLevels = levels
		case "denied_message":
			options.DeniedMessage = value
		case "denied_redirect":
			if value != "" {
				if _, ok := maybeRedirect(value); !ok {
					return nil, &bizerror.ErrBadParam{Cause: fmt.Errorf("%w: %q", bizerror.ErrBadRedirectTarget, value)}
				}
			}
			options.DeniedRedirect = value
		case "user_login_redirect":
			redirect, err := parseBoolOption(key, value)
			if err != nil {
				return nil, &bizerror.ErrBadParam{Cause: err}
			}
			options.UserLoginRedirect = redirect
		case "form_heading", "call_to_action":
			options.FormHeading = value
		case "access_expired":
			options.AccessExpired = value
		case "manage_on_mbo":
			options.ManageOnMBO = value
		case "password_reset_request":
			options.PasswordResetRequest = value
		default:
			return nil, &bizerror.ErrBadParam{Cause: fmt.Errorf("%w: %q", bizerror.ErrUnknownOption, key)}
		}
	}
	return &options, nil
}

func parseLevelList(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	levels := make([]int, 0, len(parts))
	for _, part := range parts {
		level, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("access_levels: %v", err)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func parseBoolOption(key, value string) (bool, error) {
	switch value {
	case "1", "true":
		return true, nil
	case "", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("%s: not a boolean: %q", key, value)
}
