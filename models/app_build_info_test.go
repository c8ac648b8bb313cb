package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppBuildInfo(t *testing.T) {
	info := NewAppBuildInfo("v0.3.1", "", "9f1c2e7")

	assert.Equal(t, "v0.3.1", info.BuildVersion())
	assert.Equal(t, "N/A", info.BuildDate())
	assert.Equal(t, "9f1c2e7", info.BuildCommit())
	assert.Equal(t, "version: v0.3.1\ndate: N/A\ncommit: 9f1c2e7\n", info.String())

	assert.Equal(t, "version: N/A\ndate: N/A\ncommit: N/A\n", AppBuildInfo{}.String())
}
