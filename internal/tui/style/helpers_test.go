package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUptimeColor(t *testing.T) {
	assert.Equal(t, StatusGreen, UptimeColor(99.9))
	assert.Equal(t, StatusGreen, UptimeColor(99))
	assert.Equal(t, StatusYellow, UptimeColor(95.5))
	assert.Equal(t, StatusRed, UptimeColor(0))
}
