package view

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/partners/internal/core"
	"github.com/edvin/partners/internal/model"
)

// mockStore implements core.Store for testing.
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
	return m.Called(ctx, id, p).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func named(id, name string) model.Partner {
	return model.Partner{ID: id, Name: name, Clients: []model.Token{}, Projects: []model.Token{}}
}

// numbered returns n partners with ids "1".."n" and names "Partner 1".."Partner n".
func numbered(n int) []model.Partner {
	out := make([]model.Partner, n)
	for i := range out {
		out[i] = named(fmt.Sprint(i+1), fmt.Sprintf("Partner %d", i+1))
	}
	return out
}

// newTestTable loads partners into a real PartnerService over a mock store.
func newTestTable(t *testing.T, partners ...model.Partner) (*Table, *mockStore, *core.PartnerService) {
	t.Helper()
	store := &mockStore{}
	store.On("List", mock.Anything).Return(partners, nil).Once()

	svc := core.NewPartnerService(store, zerolog.Nop())
	require.True(t, svc.FetchPartners(context.Background()).OK())

	ids := 0
	table := NewTable(svc, Options{
		NewID: func() string { ids++; return fmt.Sprintf("draft-%d", ids) },
		Now:   func() time.Time { return fixedNow },
	})
	return table, store, svc
}
