package testinfra

import (
	"io/ioutil"
	"membergate/session"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp := w.Result()
	defer func() {
		_ = resp.Body.Close()
	}()
	bodyBytes, _ := ioutil.ReadAll(resp.Body)
	return resp.StatusCode, string(bodyBytes), resp
}

// SignIn drops a session entry into the token cache and returns the cookie
// to attach to requests.
func SignIn(token, clientID, firstName string, accessLevels ...int) (*session.Context, *http.Cookie) {
	secCtx := &session.Context{
		Token: token,
		Identity: session.Identity{
			ClientID:  clientID,
			FirstName: firstName,
			Profile:   map[string]string{"ID": clientID, "FirstName": firstName},
		},
		AccessLevels: accessLevels,
		SigningTime:  time.Now(),
	}
	session.TokenCache.Set(token, secCtx, cache.DefaultExpiration)
	return secCtx, &http.Cookie{Name: session.KeySecToken, Value: token}
}
