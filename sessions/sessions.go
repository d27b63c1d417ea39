package sessions

import (
	"context"
	"errors"
	"membergate/access"
	"membergate/bizerror"
	"membergate/mindbody"
	"membergate/session"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	badEmailMessage = "Badly formed email."
	// The remote platform's own wording. The shape check below is looser
	// than the wording claims, matching what the platform actually accepts.
	passwordShapeMessage = "All Mindbody passwords must contain 8 to 15 characters and must include both letters and numbers."
	invalidLoginMessage  = "Invalid Login"
	loggedOutMessage     = "Logged Out"
)

// remotePasswordPattern: 8-15 characters total, first one alphanumeric.
var remotePasswordPattern = regexp.MustCompile(`^[A-Za-z0-9].{7,14}$`)

var fieldValidator = validator.New()

type LoginResult struct {
	Type               string            `json:"type"`
	Message            string            `json:"message"`
	ClientID           string            `json:"clientId,omitempty"`
	ClientDetails      map[string]string `json:"clientDetails,omitempty"`
	ClientAccessLevels []int             `json:"clientAccessLevels"`
}

// VerifyRemotePassword checks the password shape the remote platform
// requires before we spend a remote call on it.
func VerifyRemotePassword(password string) bool {
	return remotePasswordPattern.MatchString(password)
}

func validEmail(email string) bool {
	return fieldValidator.Var(email, "required,email") == nil
}

// LogClientIn sanitizes and validates credentials locally, then validates
// them against the remote platform. A session entry is created only on full
// success, never partially. The returned session context is nil whenever
// the result type is "error".
func LogClientIn(ctx context.Context, resolver *access.Resolver, remote mindbody.API, email, password string) (*LoginResult, *session.Context, error) {
	email = session.SanitizeTextField(email)
	password = session.SanitizeTextField(password)

	if !validEmail(email) {
		return &LoginResult{Type: "error", Message: badEmailMessage, ClientAccessLevels: []int{}}, nil, nil
	}
	if !VerifyRemotePassword(password) {
		return &LoginResult{Type: "error", Message: passwordShapeMessage, ClientAccessLevels: []int{}}, nil, nil
	}

	validation, err := remote.ValidateLogin(ctx, mindbody.Credentials{Username: email, Password: password})
	if err != nil {
		var remoteErr *bizerror.ErrRemote
		if errors.As(err, &remoteErr) {
			return &LoginResult{Type: "error", Message: remoteErr.Message, ClientAccessLevels: []int{}}, nil, nil
		}
		return nil, nil, err
	}

	if validation.GUID == "" {
		message := validation.Message
		if message == "" {
			message = invalidLoginMessage
		}
		return &LoginResult{Type: "error", Message: message, ClientAccessLevels: []int{}}, nil, nil
	}

	profile := session.SanitizeProfile(validation.Client)
	clientID := profile["ID"]
	firstName := profile["FirstName"]
	if clientID == "" {
		return &LoginResult{Type: "error", Message: invalidLoginMessage, ClientAccessLevels: []int{}}, nil, nil
	}

	secCtx := &session.Context{
		Token:       uuid.New().String(),
		Identity:    session.Identity{ClientID: clientID, FirstName: firstName, Profile: profile},
		SigningTime: time.Now(),
	}

	// The store is only written once the resolution has succeeded (the
	// resolver persists the context together with its results). A failed
	// resolution leaves no session entry behind.
	levels, err := resolver.CheckAccessPermissions(ctx, secCtx, clientID)
	if err != nil {
		return nil, nil, err
	}

	return &LoginResult{
		Type:               "success",
		Message:            "Welcome, " + firstName,
		ClientID:           clientID,
		ClientDetails:      profile,
		ClientAccessLevels: levels,
	}, secCtx, nil
}

// CheckClientLogged is a pure session read; it never calls the remote.
func CheckClientLogged(token string) bool {
	if token == "" {
		return false
	}
	value, found := session.TokenCache.Get(token)
	if !found {
		return false
	}
	secCtx, ok := value.(*session.Context)
	return ok && secCtx.Identity.ClientID != ""
}
