package component

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mindshard/mindshard-server/builder/store/database"
	"github.com/mindshard/mindshard-server/common/errorx"
	"github.com/mindshard/mindshard-server/common/types"
)

// in-memory AdapterStore used by component tests
type fakeAdapterStore struct {
	mu       sync.Mutex
	adapters map[string]*database.Adapter
}

func newFakeAdapterStore() *fakeAdapterStore {
	return &fakeAdapterStore{adapters: map[string]*database.Adapter{}}
}

func (s *fakeAdapterStore) Create(ctx context.Context, input database.Adapter) (*database.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.adapters {
		if a.ManifestHash == input.ManifestHash {
			return nil, errorx.HandleDBError(
				fmt.Errorf("duplicate key value violates unique constraint"), nil)
		}
	}
	if input.ID == "" {
		input.ID = uuid.New().String()
	}
	input.CreatedAt = time.Now().UTC()
	input.UpdatedAt = input.CreatedAt
	s.adapters[input.ID] = &input
	return &input, nil
}

func (s *fakeAdapterStore) FindByID(ctx context.Context, id string) (*database.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.adapters[id]
	if !ok {
		return nil, errorx.HandleDBError(sql.ErrNoRows, nil)
	}
	return a, nil
}

func (s *fakeAdapterStore) FindByManifestHash(ctx context.Context, hash string) (*database.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.adapters {
		if a.ManifestHash == hash {
			return a, nil
		}
	}
	return nil, errorx.HandleDBError(sql.ErrNoRows, nil)
}

func (s *fakeAdapterStore) List(ctx context.Context, req types.ListAdapterReq) ([]database.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Adapter
	for _, a := range s.adapters {
		out = append(out, *a)
	}
	return out, nil
}

func (s *fakeAdapterStore) IncrementDownloads(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.adapters[id]
	if !ok {
		return 0, errorx.HandleDBError(sql.ErrNoRows, nil)
	}
	a.Downloads++
	return a.Downloads, nil
}

func (s *fakeAdapterStore) RecordPurchase(ctx context.Context, p database.Purchase) (*database.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.adapters[p.AdapterID]
	if !ok {
		return nil, errorx.HandleDBError(sql.ErrNoRows, nil)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now().UTC()
	a.Purchases++
	return &p, nil
}

func (s *fakeAdapterStore) UpdateListing(ctx context.Context, id string, price *int64, isPrivate *bool) (*database.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.adapters[id]
	if !ok {
		return nil, errorx.HandleDBError(sql.ErrNoRows, nil)
	}
	if price != nil {
		a.Price = *price
	}
	if isPrivate != nil {
		a.IsPrivate = *isPrivate
	}
	return a, nil
}

func (s *fakeAdapterStore) AppendVersion(ctx context.Context, id string, v types.AdapterVersion) (*database.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.adapters[id]
	if !ok {
		return nil, errorx.HandleDBError(sql.ErrNoRows, nil)
	}
	a.Versions = append(a.Versions, v)
	a.Version = v.Version
	a.WalrusCID = v.WalrusCID
	return a, nil
}

// in-memory UserStore
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*database.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*database.User{}}
}

func (s *fakeUserStore) Create(ctx context.Context, input database.User) (*database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[input.Username]; ok {
		return nil, errorx.HandleDBError(
			fmt.Errorf("duplicate key value violates unique constraint"), nil)
	}
	if input.ID == "" {
		input.ID = uuid.New().String()
	}
	input.CreatedAt = time.Now().UTC()
	s.users[input.Username] = &input
	return &input, nil
}

func (s *fakeUserStore) FindByUsername(ctx context.Context, username string) (*database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, errorx.HandleDBError(sql.ErrNoRows, nil)
	}
	return u, nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errorx.HandleDBError(sql.ErrNoRows, nil)
}

func (s *fakeUserStore) FindBySuiAddress(ctx context.Context, address string) (*database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.SuiAddress == address {
			return u, nil
		}
	}
	return nil, errorx.HandleDBError(sql.ErrNoRows, nil)
}

func (s *fakeUserStore) UpdateSuiAddress(ctx context.Context, username, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return errorx.HandleDBError(sql.ErrNoRows, nil)
	}
	u.SuiAddress = address
	return nil
}

// in-memory PurchaseStore
type fakePurchaseStore struct {
	purchases []database.Purchase
}

func (s *fakePurchaseStore) FindByBuyer(ctx context.Context, buyerAddress string) ([]database.Purchase, error) {
	var out []database.Purchase
	for _, p := range s.purchases {
		if p.BuyerAddress == buyerAddress {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePurchaseStore) Exists(ctx context.Context, adapterID, buyerAddress string) (bool, error) {
	for _, p := range s.purchases {
		if p.AdapterID == adapterID && p.BuyerAddress == buyerAddress {
			return true, nil
		}
	}
	return false, nil
}
