package handler

import (
	"github.com/stretchr/testify/mock"

	"github.com/edvin/partners/internal/model"
)

// mockPartnerReader implements PartnerReader for testing.
type mockPartnerReader struct {
	mock.Mock
}

func (m *mockPartnerReader) Partners() []model.Partner {
	args := m.Called()
	return args.Get(0).([]model.Partner)
}

func (m *mockPartnerReader) GetPartnerByID(id string) (model.Partner, bool) {
	args := m.Called(id)
	return args.Get(0).(model.Partner), args.Bool(1)
}
