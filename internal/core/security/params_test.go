package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, testParams().Validate())

	p := testParams()
	p.SigningKey = nil
	assert.Error(t, p.Validate())

	p = testParams()
	p.BcryptCost = 40
	assert.Error(t, p.Validate())

	p = testParams()
	p.SessionTTL = 0
	assert.Error(t, p.Validate())

	p = testParams()
	p.RecoveryTTL = -1
	assert.Error(t, p.Validate())
}
