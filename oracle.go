package assetdiscovery

import (
	"errors"

	"github.com/everFinance/assetdiscovery/schema"
)

type Validator interface {
	Validate(domain string) bool
}

type PendingSource interface {
	DueForVerification(batchSize int, now uint64) ([]schema.KeyedRequest, error)
}

// Oracle submits a commit for every due request whose domain validates remotely.
type Oracle struct {
	pending   PendingSource
	validator Validator
	submitter Submitter
}

func NewOracle(pending PendingSource, validator Validator, submitter Submitter) *Oracle {
	return &Oracle{pending: pending, validator: validator, submitter: submitter}
}

// Run returns the number of commits submitted.
func (o *Oracle) Run(now uint64, batchSize int) (int, error) {
	due, err := o.pending.DueForVerification(batchSize, now)
	if err != nil {
		log.Error("o.pending.DueForVerification(batchSize,now)", "err", err, "now", now)
		return 0, err
	}

	// one remote lookup per domain per run
	verdicts := make(map[string]bool)
	submitted := 0
	for _, kr := range due {
		valid, ok := verdicts[kr.Request.Domain]
		if !ok {
			valid = o.validator.Validate(kr.Request.Domain)
			verdicts[kr.Request.Domain] = valid
		}
		if !valid {
			continue
		}
		_, err := o.submitter.SubmitUnsigned(schema.NewCommitVerifiedBinding(kr.Key, kr.Request))
		if errors.Is(err, schema.ErrDuplicateCommand) {
			log.Debug("verified binding already queued", "key", kr.Key)
			continue
		}
		if err != nil {
			log.Error("submit commit_verified_binding failed", "err", err, "key", kr.Key)
			continue
		}
		submitted++
	}
	return submitted, nil
}
