package adapter

import (
	"errors"
	"time"

	"github.com/agfarms/flow-custodian/models/custody"
	"github.com/agfarms/flow-custodian/models/failure"
)

// ok normalizes a successful outcome into a result record.
func (a *Adapter) ok(start time.Time, data interface{}, txID string) custody.Result {
	return custody.Result{
		Success:       true,
		TransactionID: txID,
		Data:          data,
		ExecutionTime: time.Since(start).Seconds(),
	}
}

// fail normalizes any failure into a result record. Rejections and finality
// timeouts happened after submission, so their transaction identifier is
// carried over; everything else failed before the network had a transaction
// to identify.
func (a *Adapter) fail(start time.Time, err error) custody.Result {

	res := custody.Result{
		Success:       false,
		ErrorMessage:  err.Error(),
		ExecutionTime: time.Since(start).Seconds(),
	}

	var rejection failure.RejectionError
	if errors.As(err, &rejection) {
		res.TransactionID = rejection.TransactionID
	}
	var timeout failure.TimeoutError
	if errors.As(err, &timeout) {
		res.TransactionID = timeout.TransactionID
	}

	a.log.Debug().Err(err).Str("transaction", res.TransactionID).Msg("call failed")

	return res
}
