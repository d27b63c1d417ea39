package portal

import (
	"context"
	"errors"
	"membergate/access"
	"membergate/bizerror"
	"membergate/config"
	"membergate/mindbody"
	"membergate/testinfra"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func newPortalTestRouter(remote mindbody.API) *gin.Engine {
	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	pollingCfg := config.PortalConfig{
		LoggedInPollInterval: 60 * time.Second,
		AccessPollInterval:   3600 * time.Second,
		LoggedInPollCap:      1000,
		AccessPollCap:        500,
	}
	RegisterPortalHandler(router, access.NewResolver(remote), pollingCfg)
	return router
}

func renderRequest(body string) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, "/v1/portal/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleRenderPortal(t *testing.T) {
	RegisterTestingT(t)

	access.LoadLevelsFunc = func(ctx context.Context) ([]access.AccessLevel, error) {
		return []access.AccessLevel{
			{Ordinal: 1, Name: "Basic", ContractIDs: access.IDList{100}},
			{Ordinal: 2, Name: "Premium", MembershipIDs: access.IDList{200}},
		}, nil
	}
	defer func() { access.LoadLevelsFunc = access.LoadLevels }()

	t.Run("should hand an anonymous visitor the login form", func(t *testing.T) {
		router := newPortalTestRouter(&testinfra.FakeRemote{})

		status, body, _ := testinfra.ExecuteRequest(renderRequest(
			`{"options": {}, "content": "<p>members only</p>"}`), router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"loggedIn":false`))
		Expect(body).To(ContainSubstring(`"hasAccess":false`))
		Expect(body).To(ContainSubstring("mzLogIn"))
		Expect(body).ToNot(ContainSubstring("members only"))
		Expect(body).To(ContainSubstring(`"requiredAccessLevels":[{"ordinal":1,"name":"Basic"}]`))
		Expect(body).To(ContainSubstring(`"polling":{"loggedInIntervalSeconds":60,"accessIntervalSeconds":3600,"loggedInCap":1000,"accessCap":500}`))
	})

	t.Run("should grant from the cached session levels without a remote call", func(t *testing.T) {
		remote := &testinfra.FakeRemote{}
		router := newPortalTestRouter(remote)
		_, cookie := testinfra.SignIn("token-portal-1", "c100", "Ann", 2)

		req := renderRequest(`{"options": {"access_levels": "2"}, "content": "<p>members only</p>"}`)
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"loggedIn":true`))
		Expect(body).To(ContainSubstring(`"hasAccess":true`))
		Expect(body).To(ContainSubstring(`"clientName":"Ann"`))
		Expect(body).To(ContainSubstring("members only"))
		Expect(remote.Calls).To(BeEmpty())
	})

	t.Run("should resolve against the platform when nothing is cached yet", func(t *testing.T) {
		remote := &testinfra.FakeRemote{Contracts: []mindbody.Contract{{ID: 100}}}
		router := newPortalTestRouter(remote)
		_, cookie := testinfra.SignIn("token-portal-2", "c100", "Ann")

		req := renderRequest(`{"options": {}, "content": "<p>members only</p>"}`)
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"hasAccess":true`))
		Expect(remote.Calls).To(ContainElement("GetClientContracts"))
	})

	t.Run("should fall back to the login form when the initial resolution fails", func(t *testing.T) {
		remote := &testinfra.FakeRemote{Err: errors.New("remote down")}
		router := newPortalTestRouter(remote)
		_, cookie := testinfra.SignIn("token-portal-3", "c100", "Ann")

		req := renderRequest(`{"options": {}, "content": "<p>members only</p>"}`)
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"hasAccess":false`))
		Expect(body).ToNot(ContainSubstring("members only"))
	})

	t.Run("should reject unknown embed attributes", func(t *testing.T) {
		router := newPortalTestRouter(&testinfra.FakeRemote{})

		status, _, _ := testinfra.ExecuteRequest(renderRequest(
			`{"options": {"acess_levels": "1"}, "content": ""}`), router)
		Expect(status).To(Equal(http.StatusBadRequest))
	})
}
