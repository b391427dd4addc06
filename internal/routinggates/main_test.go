package routinggates

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("GO_APP_ENV", "production")

	os.Exit(m.Run())
}
