package failure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agfarms/flow-custodian/models/failure"
	"github.com/agfarms/flow-custodian/testing/mocks"
)

func TestDescription_String(t *testing.T) {
	t.Parallel()

	plain := failure.NewDescription("something went wrong")
	assert.Equal(t, "something went wrong", plain.String())

	detailed := failure.NewDescription("something went wrong",
		failure.WithString("operation", "send_transaction"),
		failure.WithInt("attempt", 3),
		failure.WithErr(mocks.GenericError),
	)
	assert.Equal(t, "something went wrong (operation: send_transaction, attempt: 3, error: dummy error)", detailed.String())

	withAddress := failure.NewDescription("account missing",
		failure.WithAddress("address", mocks.GenericAddress(0)),
	)
	assert.Contains(t, withAddress.String(), "0xf8d6e0586b0a20c7")
}
