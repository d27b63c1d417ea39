package testinfra

import (
	"context"
	"membergate/mindbody"
	"membergate/schedule"
)

// FakeRemote is a scriptable stand-in for the membership platform.
type FakeRemote struct {
	ValidateLoginFn func(credentials mindbody.Credentials) (*mindbody.ValidateLoginResult, error)

	Clients     []map[string]interface{}
	Contracts   []mindbody.Contract
	Memberships []mindbody.Membership
	Services    []mindbody.ClientService
	Purchases   []mindbody.Purchase
	Visits      []schedule.Visit

	// Err, when set, fails every fetch.
	Err error

	Calls []string
}

var _ mindbody.API = (*FakeRemote)(nil)

func (f *FakeRemote) record(call string) { f.Calls = append(f.Calls, call) }

func (f *FakeRemote) ValidateLogin(ctx context.Context, credentials mindbody.Credentials) (*mindbody.ValidateLoginResult, error) {
	f.record("ValidateLogin")
	if f.ValidateLoginFn != nil {
		return f.ValidateLoginFn(credentials)
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &mindbody.ValidateLoginResult{}, nil
}

func (f *FakeRemote) GetClients(ctx context.Context, clientIDs []string) ([]map[string]interface{}, error) {
	f.record("GetClients")
	return f.Clients, f.Err
}

func (f *FakeRemote) GetClientContracts(ctx context.Context, clientID string) ([]mindbody.Contract, error) {
	f.record("GetClientContracts")
	return f.Contracts, f.Err
}

func (f *FakeRemote) GetActiveClientMemberships(ctx context.Context, clientID string) ([]mindbody.Membership, error) {
	f.record("GetActiveClientMemberships")
	return f.Memberships, f.Err
}

func (f *FakeRemote) GetClientServices(ctx context.Context, clientID string) ([]mindbody.ClientService, error) {
	f.record("GetClientServices")
	return f.Services, f.Err
}

func (f *FakeRemote) GetClientPurchases(ctx context.Context, clientID string) ([]mindbody.Purchase, error) {
	f.record("GetClientPurchases")
	return f.Purchases, f.Err
}

func (f *FakeRemote) GetClientSchedule(ctx context.Context, clientID string) ([]schedule.Visit, error) {
	f.record("GetClientSchedule")
	return f.Visits, f.Err
}

func (f *FakeRemote) SendPasswordResetEmail(ctx context.Context, reset mindbody.PasswordResetRequest) error {
	f.record("SendPasswordResetEmail")
	return f.Err
}
