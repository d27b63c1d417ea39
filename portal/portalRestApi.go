package portal

import (
	"membergate/access"
	"membergate/bizerror"
	"membergate/common"
	"membergate/config"
	"membergate/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type RenderRequest struct {
	// Options are the page-embed attributes, unknown keys rejected.
	Options map[string]string `json:"options"`
	// Content is the restricted HTML payload between the embed tags. It is
	// included in the response only when access is granted.
	Content string `json:"content"`
}

type LevelSummary struct {
	Ordinal int    `json:"ordinal"`
	Name    string `json:"name"`
}

// PollingPlan tells the page script how often to re-check the session and
// the access levels, and when to give up.
type PollingPlan struct {
	LoggedInIntervalSeconds int `json:"loggedInIntervalSeconds"`
	AccessIntervalSeconds   int `json:"accessIntervalSeconds"`
	LoggedInCap             int `json:"loggedInCap"`
	AccessCap               int `json:"accessCap"`
}

type RenderResponse struct {
	Type                 string         `json:"type"`
	LoggedIn             bool           `json:"loggedIn"`
	HasAccess            bool           `json:"hasAccess"`
	ClientName           string         `json:"clientName"`
	RequiredAccessLevels []LevelSummary `json:"requiredAccessLevels"`
	Polling              PollingPlan    `json:"polling"`
	HTML                 string         `json:"html"`
}

func RegisterPortalHandler(r *gin.Engine, resolver *access.Resolver, pollingCfg config.PortalConfig) {
	r.POST("/v1/portal/render", func(c *gin.Context) {
		HandleRenderPortal(c, resolver, pollingCfg)
	})
}

// HandleRenderPortal computes the initial state of a gated region: whether
// the visitor is logged in, whether their cached levels satisfy the page,
// and the first HTML fragment to show.
func HandleRenderPortal(c *gin.Context, resolver *access.Resolver, pollingCfg config.PortalConfig) {
	request := RenderRequest{}
	if err := c.ShouldBindBodyWith(&request, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	options, err := ParseOptions(request.Options)
	if err != nil {
		panic(err)
	}

	allLevels, err := access.LoadLevelsFunc(c.Request.Context())
	if err != nil {
		panic(err)
	}

	loggedIn := false
	hasAccess := false
	clientName := ""
	secCtx := session.LoadSecurityContext(c)
	if secCtx != nil && secCtx.Identity.ClientID != "" {
		loggedIn = true
		clientName = secCtx.Identity.FirstName
		if len(secCtx.AccessLevels) > 0 {
			hasAccess = secCtx.HasAccessTo(options.AccessLevels)
		} else {
			// Nothing cached yet for this session, so ping the platform.
			// A remote failure here is not fatal to the page; the region
			// falls back to the login form.
			levels, err := resolver.CheckAccessPermissions(c.Request.Context(), secCtx, secCtx.Identity.ClientID)
			if err != nil {
				common.Log.Warnf("initial access resolution failed: %v", err)
			} else {
				hasAccess = intersects(levels, options.AccessLevels)
			}
		}
	}

	machine := NewMachine(options, allLevels, nil)
	machine.SetLoggedIn(loggedIn)
	machine.SetHasAccess(hasAccess)

	fragments := Fragments{
		LoginForm:         BuildLoginForm(options),
		RestrictedContent: request.Content,
		Footer:            BuildFooter(options),
	}

	required := []LevelSummary{}
	for _, ordinal := range options.AccessLevels {
		for i := range allLevels {
			if allLevels[i].Ordinal == ordinal {
				required = append(required, LevelSummary{Ordinal: ordinal, Name: allLevels[i].Name})
			}
		}
	}

	c.JSON(http.StatusOK, &RenderResponse{
		Type:                 "success",
		LoggedIn:             loggedIn,
		HasAccess:            hasAccess,
		ClientName:           clientName,
		RequiredAccessLevels: required,
		Polling: PollingPlan{
			LoggedInIntervalSeconds: int(pollingCfg.LoggedInPollInterval.Seconds()),
			AccessIntervalSeconds:   int(pollingCfg.AccessPollInterval.Seconds()),
			LoggedInCap:             pollingCfg.LoggedInPollCap,
			AccessCap:               pollingCfg.AccessPollCap,
		},
		HTML: Render(machine, fragments),
	})
}
