//go:build !windows

package junction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStubsRefusePolitely(t *testing.T) {
	assert.Error(t, Create(`C:\Games\Overland`, `D:\Stash\Overland`, false))
	assert.Error(t, Delete(`C:\Games\Overland`))

	_, err := Exists(`C:\Games\Overland`)
	assert.Error(t, err)

	_, err = GetTarget(`C:\Games\Overland`)
	assert.Error(t, err)
}
