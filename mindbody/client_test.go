package mindbody

import (
	"context"
	"encoding/json"
	"errors"
	"membergate/bizerror"
	"membergate/config"
	"membergate/schedule"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(config.RemoteConfig{
		BaseURL: server.URL,
		SiteID:  "12345",
		APIKey:  "key-abc",
		Timeout: 5 * time.Second,
	})
	return client, server
}

func TestValidateLogin(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should post credentials with the platform headers", func(t *testing.T) {
		var gotPath, gotAPIKey, gotSiteID string
		var gotBody Credentials
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAPIKey = r.Header.Get("Api-Key")
			gotSiteID = r.Header.Get("SiteId")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ValidateLoginResult": {"GUID": "guid-1",
				"Client": {"ID": "c100", "FirstName": "Ann"}}}`))
		})
		defer server.Close()

		result, err := client.ValidateLogin(context.Background(), Credentials{Username: "ann@example.com", Password: "abcd1234"})
		Expect(err).To(BeNil())
		Expect(gotPath).To(Equal("/client/validatelogin"))
		Expect(gotAPIKey).To(Equal("key-abc"))
		Expect(gotSiteID).To(Equal("12345"))
		Expect(gotBody.Username).To(Equal("ann@example.com"))
		Expect(result.GUID).To(Equal("guid-1"))
		Expect(result.Client["FirstName"]).To(Equal("Ann"))
	})

	t.Run("should surface the platform's error message on a non-2xx answer", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"Error": {"Code": "InvalidCredentials", "Message": "Invalid credentials supplied"}}`))
		})
		defer server.Close()

		_, err := client.ValidateLogin(context.Background(), Credentials{})
		var remoteErr *bizerror.ErrRemote
		Expect(errors.As(err, &remoteErr)).To(BeTrue())
		Expect(remoteErr.Message).To(Equal("Invalid credentials supplied"))
	})

	t.Run("should mark a transport failure as remote-unavailable", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
		server.Close() // connection refused from here on

		_, err := client.ValidateLogin(context.Background(), Credentials{})
		Expect(errors.Is(err, bizerror.ErrRemoteUnavailable)).To(BeTrue())
	})
}

func TestGetClientEntitlements(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should decode contracts", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/client/clientcontracts"))
			Expect(r.URL.Query().Get("clientId")).To(Equal("c100"))
			_, _ = w.Write([]byte(`{"Contracts": [{"Id": 100, "ContractName": "Gold"}]}`))
		})
		defer server.Close()

		contracts, err := client.GetClientContracts(context.Background(), "c100")
		Expect(err).To(BeNil())
		Expect(contracts).To(HaveLen(1))
		Expect(contracts[0].ID).To(Equal(100))
	})

	t.Run("should decode active memberships", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/client/activeclientmemberships"))
			_, _ = w.Write([]byte(`{"ClientMemberships": [{"MembershipId": 200, "Name": "Monthly"}]}`))
		})
		defer server.Close()

		memberships, err := client.GetActiveClientMemberships(context.Background(), "c100")
		Expect(err).To(BeNil())
		Expect(memberships).To(HaveLen(1))
		Expect(memberships[0].MembershipID).To(Equal(200))
	})

	t.Run("should decode client services", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/client/clientservices"))
			_, _ = w.Write([]byte(`{"ClientServices": [
				{"ProductId": 300, "Remaining": 4, "ExpirationDate": "2026-12-31T00:00:00"}]}`))
		})
		defer server.Close()

		services, err := client.GetClientServices(context.Background(), "c100")
		Expect(err).To(BeNil())
		Expect(services).To(HaveLen(1))
		Expect(services[0].ProductID).To(Equal(300))
		Expect(services[0].Remaining).To(Equal(4))
	})
}

func TestGetClientSchedule(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should decode a visit list from the schedule envelope", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/client/clientschedule"))
			_, _ = w.Write([]byte(`{"GetClientScheduleResult": {"Visits": [
				{"Id": 1, "Name": "Yoga", "StartDateTime": "2026-03-10T09:00:00"}]}}`))
		})
		defer server.Close()

		visits, err := client.GetClientSchedule(context.Background(), "c100")
		Expect(err).To(BeNil())
		Expect(visits).To(HaveLen(1))
		Expect(visits[0].Name).To(Equal("Yoga"))
	})

	t.Run("should normalize a single wrapped visit", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"GetClientScheduleResult": {"Visits":
				{"Visit": {"Id": 2, "Name": "Spin", "StartDateTime": "2026-03-10T11:00:00"}}}}`))
		})
		defer server.Close()

		visits, err := client.GetClientSchedule(context.Background(), "c100")
		Expect(err).To(BeNil())
		Expect(visits).To(HaveLen(1))
		Expect(visits[0].ID).To(Equal(2))
	})

	t.Run("should return an empty slice when the client has no visits", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"GetClientScheduleResult": {}}`))
		})
		defer server.Close()

		visits, err := client.GetClientSchedule(context.Background(), "c100")
		Expect(err).To(BeNil())
		Expect(visits).To(Equal([]schedule.Visit{}))
	})
}

func TestSendPasswordResetEmail(t *testing.T) {
	RegisterTestingT(t)

	var gotBody PasswordResetRequest
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		Expect(r.URL.Path).To(Equal("/client/sendpasswordresetemail"))
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	})
	defer server.Close()

	err := client.SendPasswordResetEmail(context.Background(), PasswordResetRequest{
		UserEmail: "ann@example.com", UserFirstName: "Ann", UserLastName: "Lee",
	})
	Expect(err).To(BeNil())
	Expect(gotBody.UserEmail).To(Equal("ann@example.com"))
}
