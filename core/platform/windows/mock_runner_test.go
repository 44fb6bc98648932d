package windows

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"
)

// mockRunner is a testify mock of Runner. Stream emits the []string returned
// as the first value before returning the exit code and error.
type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	ret := m.Called(ctx, name, args)
	return ret.String(0), ret.Error(1)
}

func (m *mockRunner) Stream(ctx context.Context, onLine func(line string), name string, args ...string) (int, error) {
	ret := m.Called(ctx, name, args)
	if lines, ok := ret.Get(0).([]string); ok {
		for _, l := range lines {
			onLine(l)
		}
	}
	return ret.Int(1), ret.Error(2)
}

// argsWith matches an argument list containing every given value.
func argsWith(values ...string) interface{} {
	return mock.MatchedBy(func(args []string) bool {
		joined := strings.Join(args, " ")
		for _, v := range values {
			if !strings.Contains(joined, v) {
				return false
			}
		}
		return true
	})
}
