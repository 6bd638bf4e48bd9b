package schema

const (
	DefaultVerifyBatchSize = 10
	DefaultSweepBatchSize  = 10
	DefaultSweepEvery      = 10
	DefaultExpireEvery     = 10
)

// Param holds the reconciliation cadence, editable at runtime in the config db.
type Param struct {
	ID              uint `gorm:"primarykey" json:"-"`
	VerifyBatchSize int  `json:"verifyBatchSize"` // pending requests verified per epoch
	SweepBatchSize  int  `json:"sweepBatchSize"`  // registered domains checked per sweep
	SweepEvery      int  `json:"sweepEvery"`      // epochs between two revocation sweeps
	ExpireEvery     int  `json:"expireEvery"`     // epochs between two expiry submissions
}

func DefaultParam() Param {
	return Param{
		VerifyBatchSize: DefaultVerifyBatchSize,
		SweepBatchSize:  DefaultSweepBatchSize,
		SweepEvery:      DefaultSweepEvery,
		ExpireEvery:     DefaultExpireEvery,
	}
}

// Normalize replaces non positive fields with their defaults.
func (p Param) Normalize() Param {
	d := DefaultParam()
	if p.VerifyBatchSize <= 0 {
		p.VerifyBatchSize = d.VerifyBatchSize
	}
	if p.SweepBatchSize <= 0 {
		p.SweepBatchSize = d.SweepBatchSize
	}
	if p.SweepEvery <= 0 {
		p.SweepEvery = d.SweepEvery
	}
	if p.ExpireEvery <= 0 {
		p.ExpireEvery = d.ExpireEvery
	}
	return p
}
