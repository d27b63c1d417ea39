package access

import (
	"context"
	"membergate/bizerror"
	"membergate/common"
	"membergate/mindbody"
	"membergate/schedule"
	"membergate/session"
	"time"
)

// Resolver computes which access levels a client satisfies. It composes a
// remote membership client rather than extending one.
type Resolver struct {
	remote mindbody.API

	nowFunc    func() time.Time
	loadLevels func(ctx context.Context) ([]AccessLevel, error)
}

// Resolution is one consistent snapshot of a client's entitlements.
type Resolution struct {
	AccessLevels  []int
	ContractIDs   []int
	MembershipIDs []int
	ServiceIDs    []int
}

func NewResolver(remote mindbody.API) *Resolver {
	return &Resolver{
		remote:  remote,
		nowFunc: time.Now,
		loadLevels: func(ctx context.Context) ([]AccessLevel, error) {
			return LoadLevelsFunc(ctx)
		},
	}
}

// CheckAccessPermissions resolves entitlements for the session's client and
// persists the result into the session entry. No session means not logged
// in, which is a normal state for the caller to handle.
func (r *Resolver) CheckAccessPermissions(ctx context.Context, secCtx *session.Context, clientID string) ([]int, error) {
	if secCtx == nil || secCtx.Token == "" {
		return nil, bizerror.ErrUnauthenticated
	}
	resolution, err := r.Resolve(ctx, clientID)
	if err != nil {
		return nil, err
	}
	session.UpdateClientSession(secCtx, resolution.AccessLevels,
		resolution.ContractIDs, resolution.MembershipIDs, resolution.ServiceIDs)
	return resolution.AccessLevels, nil
}

// Resolve fetches the client's contract, membership and valid-service IDs
// and grants every level with a non-empty intersection on any of the three.
// Any remote fetch error aborts the whole resolution; there are no partial
// grants.
func (r *Resolver) Resolve(ctx context.Context, clientID string) (*Resolution, error) {
	contractIDs, err := r.clientContractIDs(ctx, clientID)
	if err != nil {
		return nil, err
	}
	membershipIDs, err := r.clientActiveMembershipIDs(ctx, clientID)
	if err != nil {
		return nil, err
	}
	serviceIDs, err := r.clientValidServiceIDs(ctx, clientID)
	if err != nil {
		return nil, err
	}

	levels, err := r.loadLevels(ctx)
	if err != nil {
		return nil, err
	}

	granted := []int{}
	for _, level := range levels {
		if clientHasAccessToLevel(contractIDs, membershipIDs, serviceIDs, &level) {
			granted = append(granted, level.Ordinal)
		}
	}
	return &Resolution{
		AccessLevels:  granted,
		ContractIDs:   contractIDs,
		MembershipIDs: membershipIDs,
		ServiceIDs:    serviceIDs,
	}, nil
}

// ClientSchedule returns the client's visits bucketed by date then time.
func (r *Resolver) ClientSchedule(ctx context.Context, clientID string) (schedule.Schedule, error) {
	visits, err := r.remote.GetClientSchedule(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return schedule.SortVisitsByDateThenTime(visits), nil
}

// ClientPurchases returns the client's purchase history as reported by the
// membership platform.
func (r *Resolver) ClientPurchases(ctx context.Context, clientID string) ([]mindbody.Purchase, error) {
	return r.remote.GetClientPurchases(ctx, clientID)
}

// LookupClients fetches raw client records, for admin tooling.
func (r *Resolver) LookupClients(ctx context.Context, clientIDs []string) ([]map[string]interface{}, error) {
	return r.remote.GetClients(ctx, clientIDs)
}

func clientHasAccessToLevel(contractIDs, membershipIDs, serviceIDs []int, level *AccessLevel) bool {
	for _, id := range contractIDs {
		if level.ContractIDs.Contains(id) {
			return true
		}
	}
	for _, id := range membershipIDs {
		if level.MembershipIDs.Contains(id) {
			return true
		}
	}
	for _, id := range serviceIDs {
		if level.ServiceIDs.Contains(id) {
			return true
		}
	}
	return false
}

func (r *Resolver) clientContractIDs(ctx context.Context, clientID string) ([]int, error) {
	contracts, err := r.remote.GetClientContracts(ctx, clientID)
	if err != nil {
		return nil, err
	}
	ids := []int{}
	for _, contract := range contracts {
		ids = append(ids, contract.ID)
	}
	return ids, nil
}

func (r *Resolver) clientActiveMembershipIDs(ctx context.Context, clientID string) ([]int, error) {
	memberships, err := r.remote.GetActiveClientMemberships(ctx, clientID)
	if err != nil {
		return nil, err
	}
	ids := []int{}
	for _, membership := range memberships {
		ids = append(ids, membership.MembershipID)
	}
	return ids, nil
}

func (r *Resolver) clientValidServiceIDs(ctx context.Context, clientID string) ([]int, error) {
	services, err := r.remote.GetClientServices(ctx, clientID)
	if err != nil {
		return nil, err
	}
	now := r.nowFunc()
	ids := []int{}
	for _, service := range services {
		if r.isServiceValid(&service, now) {
			ids = append(ids, service.ProductID)
		}
	}
	return ids, nil
}

// isServiceValid: remaining uses left, and not expired. A service expiring
// exactly now is still valid; only strictly earlier is expired. Both sides
// are evaluated in the process's local timezone.
func (r *Resolver) isServiceValid(service *mindbody.ClientService, now time.Time) bool {
	if service.Remaining < 1 {
		return false
	}
	expiration, err := time.ParseInLocation(schedule.DateTimeLayout, service.ExpirationDate, time.Local)
	if err != nil {
		common.Log.Warnf("unreadable service expiration %q for product %d", service.ExpirationDate, service.ProductID)
		return false
	}
	return !expiration.Before(now)
}
