package holiday

import "github.com/stretchr/testify/mock"

// MockProvider implements Provider for testing.
type MockProvider struct {
	mock.Mock
}

// Holidays implements Provider.
func (m *MockProvider) Holidays(year int) (Static, error) {
	args := m.Called(year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Static), args.Error(1)
}
