package mindbody

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"membergate/bizerror"
	"membergate/config"
	"membergate/schedule"
	"net/http"
	"net/url"
	"strings"
)

// API is the capability surface of the remote membership platform. The
// access resolver and the session handlers hold a reference to this
// interface rather than to the HTTP client itself.
type API interface {
	ValidateLogin(ctx context.Context, credentials Credentials) (*ValidateLoginResult, error)
	GetClients(ctx context.Context, clientIDs []string) ([]map[string]interface{}, error)
	GetClientContracts(ctx context.Context, clientID string) ([]Contract, error)
	GetActiveClientMemberships(ctx context.Context, clientID string) ([]Membership, error)
	GetClientServices(ctx context.Context, clientID string) ([]ClientService, error)
	GetClientPurchases(ctx context.Context, clientID string) ([]Purchase, error)
	GetClientSchedule(ctx context.Context, clientID string) ([]schedule.Visit, error)
	SendPasswordResetEmail(ctx context.Context, reset PasswordResetRequest) error
}

type Client struct {
	baseURL    string
	siteID     string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.RemoteConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		siteID:     cfg.SiteID,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type remoteErrorBody struct {
	Error struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Error"`
}

func (c *Client) invoke(ctx context.Context, method, path string, query url.Values, reqBody interface{}, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader *bytes.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(raw)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("SiteId", c.siteID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", bizerror.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", bizerror.ErrRemoteUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remoteErr := remoteErrorBody{}
		if err := json.Unmarshal(respBody, &remoteErr); err == nil && remoteErr.Error.Message != "" {
			return &bizerror.ErrRemote{Message: remoteErr.Error.Message}
		}
		return &bizerror.ErrRemote{Message: fmt.Sprintf("%s %s: %s", method, path, resp.Status)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &bizerror.ErrRemote{Message: "unreadable response from membership platform", Cause: err}
		}
	}
	return nil
}

func (c *Client) ValidateLogin(ctx context.Context, credentials Credentials) (*ValidateLoginResult, error) {
	envelope := struct {
		ValidateLoginResult ValidateLoginResult `json:"ValidateLoginResult"`
	}{}
	if err := c.invoke(ctx, http.MethodPost, "/client/validatelogin", nil, &credentials, &envelope); err != nil {
		return nil, err
	}
	return &envelope.ValidateLoginResult, nil
}

func (c *Client) GetClients(ctx context.Context, clientIDs []string) ([]map[string]interface{}, error) {
	query := url.Values{}
	for _, id := range clientIDs {
		query.Add("clientIds", id)
	}
	envelope := struct {
		Clients []map[string]interface{} `json:"Clients"`
	}{}
	if err := c.invoke(ctx, http.MethodGet, "/client/clients", query, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Clients, nil
}

func (c *Client) GetClientContracts(ctx context.Context, clientID string) ([]Contract, error) {
	envelope := struct {
		Contracts []Contract `json:"Contracts"`
	}{}
	if err := c.invoke(ctx, http.MethodGet, "/client/clientcontracts", url.Values{"clientId": {clientID}}, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Contracts, nil
}

func (c *Client) GetActiveClientMemberships(ctx context.Context, clientID string) ([]Membership, error) {
	envelope := struct {
		ClientMemberships []Membership `json:"ClientMemberships"`
	}{}
	if err := c.invoke(ctx, http.MethodGet, "/client/activeclientmemberships", url.Values{"clientId": {clientID}}, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.ClientMemberships, nil
}

func (c *Client) GetClientServices(ctx context.Context, clientID string) ([]ClientService, error) {
	envelope := struct {
		ClientServices []ClientService `json:"ClientServices"`
	}{}
	if err := c.invoke(ctx, http.MethodGet, "/client/clientservices", url.Values{"clientId": {clientID}}, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.ClientServices, nil
}

func (c *Client) GetClientPurchases(ctx context.Context, clientID string) ([]Purchase, error) {
	query := url.Values{"ClientId": {clientID}, "StartDate": {"2001-01-01T00:00:00"}}
	envelope := struct {
		Purchases []Purchase `json:"Purchases"`
	}{}
	if err := c.invoke(ctx, http.MethodGet, "/client/clientpurchases", query, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Purchases, nil
}

func (c *Client) GetClientSchedule(ctx context.Context, clientID string) ([]schedule.Visit, error) {
	envelope := struct {
		GetClientScheduleResult struct {
			Visits json.RawMessage `json:"Visits"`
		} `json:"GetClientScheduleResult"`
	}{}
	if err := c.invoke(ctx, http.MethodGet, "/client/clientschedule", url.Values{"clientId": {clientID}}, nil, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.GetClientScheduleResult.Visits) == 0 {
		return []schedule.Visit{}, nil
	}
	visits, err := schedule.DecodeVisits(envelope.GetClientScheduleResult.Visits)
	if err != nil {
		return nil, &bizerror.ErrRemote{Message: "unreadable schedule from membership platform", Cause: err}
	}
	return visits, nil
}

func (c *Client) SendPasswordResetEmail(ctx context.Context, reset PasswordResetRequest) error {
	return c.invoke(ctx, http.MethodPost, "/client/sendpasswordresetemail", nil, &reset, nil)
}
