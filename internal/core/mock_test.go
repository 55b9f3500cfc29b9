package core

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/partners/internal/model"
)

// ---------- Mock Store ----------

// mockStore implements the Store interface for testing.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context) ([]model.Partner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Partner), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, input model.PartnerInput) (model.Partner, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(model.Partner), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, id string, p model.Partner) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ---------- Fixtures ----------

func partnerFixture(id, name string) model.Partner {
	return model.Partner{
		ID:        id,
		CreatedAt: "2023-04-19T21:08:42.181Z",
		Name:      name,
		Clients:   []model.Token{model.StringToken("c-" + id)},
		Projects:  []model.Token{model.ParseToken("1")},
	}
}

// loadedService returns a service whose collection already holds partners.
func loadedService(store *mockStore, partners ...model.Partner) *PartnerService {
	svc := NewPartnerService(store, zerolog.Nop())
	svc.partners = model.ClonePartners(partners)
	return svc
}
