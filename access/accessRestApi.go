package access

import (
	"membergate/bizerror"
	"membergate/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AccessPermissionsResponse struct {
	Type               string `json:"type"`
	ClientAccessLevels []int  `json:"clientAccessLevels"`
}

type ClientScheduleResponse struct {
	Type     string      `json:"type"`
	Schedule interface{} `json:"schedule"`
}

func RegisterAccessHandler(r *gin.Engine, resolver *Resolver, adminKey string) {
	g := r.Group("/v1/access-permissions")
	g.GET("", session.SimpleAuthFilter(), func(c *gin.Context) {
		HandleCheckAccessPermissions(c, resolver)
	})
	g.GET(":clientId", AdminKeyFilter(adminKey), func(c *gin.Context) {
		HandleCheckAccessPermissionsByClientID(c, resolver)
	})

	r.GET("/v1/client/schedule", session.SimpleAuthFilter(), func(c *gin.Context) {
		HandleClientSchedule(c, resolver)
	})
	r.GET("/v1/client/purchases", session.SimpleAuthFilter(), func(c *gin.Context) {
		HandleClientPurchases(c, resolver)
	})

	r.GET("/v1/clients", AdminKeyFilter(adminKey), func(c *gin.Context) {
		HandleLookupClients(c, resolver)
	})
}

// HandleCheckAccessPermissions re-resolves entitlements for the session's
// own client and refreshes the session cache.
func HandleCheckAccessPermissions(c *gin.Context, resolver *Resolver) {
	secCtx := session.FindSecurityContext(c)
	if secCtx == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	levels, err := resolver.CheckAccessPermissions(c.Request.Context(), secCtx, secCtx.Identity.ClientID)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &AccessPermissionsResponse{Type: "success", ClientAccessLevels: levels})
}

// HandleCheckAccessPermissionsByClientID resolves for an arbitrary client.
// Admin-only; it reads nothing from, and writes nothing to, any session.
func HandleCheckAccessPermissionsByClientID(c *gin.Context, resolver *Resolver) {
	clientID := c.Param("clientId")
	if clientID == "" {
		panic(&bizerror.ErrBadParam{})
	}
	resolution, err := resolver.Resolve(c.Request.Context(), clientID)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &AccessPermissionsResponse{Type: "success", ClientAccessLevels: resolution.AccessLevels})
}

func HandleClientSchedule(c *gin.Context, resolver *Resolver) {
	secCtx := session.FindSecurityContext(c)
	if secCtx == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	clientSchedule, err := resolver.ClientSchedule(c.Request.Context(), secCtx.Identity.ClientID)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &ClientScheduleResponse{Type: "success", Schedule: clientSchedule})
}

func HandleClientPurchases(c *gin.Context, resolver *Resolver) {
	secCtx := session.FindSecurityContext(c)
	if secCtx == nil {
		panic(bizerror.ErrUnauthenticated)
	}
	purchases, err := resolver.ClientPurchases(c.Request.Context(), secCtx.Identity.ClientID)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{"type": "success", "purchases": purchases})
}

func HandleLookupClients(c *gin.Context, resolver *Resolver) {
	clientIDs := c.QueryArray("clientId")
	if len(clientIDs) == 0 {
		panic(&bizerror.ErrBadParam{})
	}
	clients, err := resolver.LookupClients(c.Request.Context(), clientIDs)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{"type": "success", "clients": clients})
}

// AdminKeyFilter guards trusted routes with a shared key. An empty
// configured key disables the routes entirely.
func AdminKeyFilter(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" || c.GetHeader("X-Admin-Key") != adminKey {
			panic(bizerror.ErrForbidden)
		}
		c.Next()
	}
}
