package assetdiscovery

import (
	"github.com/everFinance/assetdiscovery/schema"
)

type ProviderIndex interface {
	ScanProviderDomains(after string, limit int) ([]string, error)
}

type CursorStore interface {
	LoadSweepCursor() (string, error)
	SaveSweepCursor(cursor string) error
}

// Sweep walks the provider index a batch at a time and retracts domains
// that no longer validate.
type Sweep struct {
	index     ProviderIndex
	cursor    CursorStore
	validator Validator
	submitter Submitter
}

func NewSweep(index ProviderIndex, cursor CursorStore, validator Validator, submitter Submitter) *Sweep {
	return &Sweep{index: index, cursor: cursor, validator: validator, submitter: submitter}
}

// NextBatch resumes after the persisted cursor. A short batch means the walk
// reached the end, so the cursor is cleared and the next batch wraps.
func (s *Sweep) NextBatch(batchSize int) ([]string, error) {
	cursor, err := s.cursor.LoadSweepCursor()
	if err != nil {
		return nil, err
	}
	batch, err := s.index.ScanProviderDomains(cursor, batchSize)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 && cursor != "" {
		batch, err = s.index.ScanProviderDomains("", batchSize)
		if err != nil {
			return nil, err
		}
	}

	next := ""
	if len(batch) > 0 && len(batch) == batchSize {
		next = batch[len(batch)-1]
	}
	if err := s.cursor.SaveSweepCursor(next); err != nil {
		return nil, err
	}
	return batch, nil
}

// Run returns the domains submitted for retraction.
func (s *Sweep) Run(batchSize int) ([]string, error) {
	batch, err := s.NextBatch(batchSize)
	if err != nil {
		log.Error("s.NextBatch(batchSize)", "err", err)
		return nil, err
	}

	revoked := make([]string, 0)
	for _, domain := range batch {
		if !s.validator.Validate(domain) {
			revoked = append(revoked, domain)
		}
	}
	if len(revoked) == 0 {
		return revoked, nil
	}
	if _, err := s.submitter.SubmitUnsigned(schema.NewRetractDomains(revoked)); err != nil {
		log.Error("submit retract_domains failed", "err", err, "domains", revoked)
		return nil, err
	}
	log.Info("retract domains submitted", "domains", revoked)
	return revoked, nil
}
