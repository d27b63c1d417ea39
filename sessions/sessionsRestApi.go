package sessions

import (
	"membergate/access"
	"membergate/bizerror"
	"membergate/mindbody"
	"membergate/session"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type CheckLoggedResponse struct {
	Type    string `json:"type"`
	Message int    `json:"message"`
}

type SimpleResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PasswordResetRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

// LogClientInFunc is the test seam for the login flow.
var LogClientInFunc = LogClientIn

func RegisterSessionsHandler(r *gin.Engine, resolver *access.Resolver, remote mindbody.API) {
	g := r.Group("/v1/sessions")
	g.POST("", AjaxOnlyFilter(), LoginRateLimitFilter(), func(c *gin.Context) {
		HandleLogin(c, resolver, remote)
	})
	g.DELETE("", AjaxOnlyFilter(), HandleLogout)
	g.GET("", HandleCheckClientLogged)

	r.GET("/v1/client/details", session.SimpleAuthFilter(), HandleClientDetails)

	r.POST("/v1/password-resets", AjaxOnlyFilter(), func(c *gin.Context) {
		HandlePasswordResetRequest(c, remote)
	})
}

func HandleLogin(c *gin.Context, resolver *access.Resolver, remote mindbody.API) {
	login := LoginRequest{}
	if err := c.ShouldBind(&login); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	result, secCtx, err := LogClientInFunc(c.Request.Context(), resolver, remote, login.Email, login.Password)
	if err != nil {
		panic(err)
	}
	if secCtx != nil {
		c.SetCookie(session.KeySecToken, secCtx.Token, int(session.TokenExpiration/time.Second), "/", "", false, true)
	}
	// Credential-shape and remote-login failures are form errors, not API
	// errors: always a 200 with type success|error.
	c.JSON(http.StatusOK, result)
}

// HandleLogout clears the session entry and the cookie. Idempotent; a
// second call is a no-op.
func HandleLogout(c *gin.Context) {
	token, _ := c.Cookie(session.KeySecToken) // ErrNoCookie
	if token != "" {
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, &SimpleResponse{Type: "success", Message: loggedOutMessage})
}

func HandleCheckClientLogged(c *gin.Context) {
	token, _ := c.Cookie(session.KeySecToken)
	logged := 0
	if CheckClientLogged(token) {
		logged = 1
	}
	c.JSON(http.StatusOK, &CheckLoggedResponse{Type: "success", Message: logged})
}

// HandleClientDetails returns the sanitized profile captured at login.
// A pure session read; the remote is never called.
func HandleClientDetails(c *gin.Context) {
	secCtx := session.FindSecurityContext(c)
	if secCtx == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	c.JSON(http.StatusOK, gin.H{"type": "success", "clientDetails": secCtx.Identity.Profile})
}

func HandlePasswordResetRequest(c *gin.Context, remote mindbody.API) {
	request := PasswordResetRequest{}
	if err := c.ShouldBindJSON(&request); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	err := remote.SendPasswordResetEmail(c.Request.Context(), mindbody.PasswordResetRequest{
		UserEmail:     request.Email,
		UserFirstName: request.FirstName,
		UserLastName:  request.LastName,
	})
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &SimpleResponse{Type: "success", Message: "Password reset email sent"})
}

// AjaxOnlyFilter rejects requests without the XMLHttpRequest marker header.
// Browsers cannot attach this header to cross-site form posts, which keeps
// the mutating actions forgery-resistant alongside the session cookie.
func AjaxOnlyFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Requested-With") != "XMLHttpRequest" {
			panic(bizerror.ErrForbidden)
		}
		c.Next()
	}
}
