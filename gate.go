package assetdiscovery

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/assetdiscovery/schema"
	"golang.org/x/crypto/blake2b"
)

// Submitter accepts commands for the next block.
type Submitter interface {
	SubmitUnsigned(cmd schema.Command) (schema.Validity, error)
	SubmitSigned(cmd schema.Command) error
}

// Gate is the command pool in front of the ledger. Unsigned commands are
// admitted once per tag per block; everything is applied in submission order.
type Gate struct {
	tags   map[string]struct{} // tags accepted since the last block
	queue  []schema.Command
	locker sync.RWMutex
}

func NewGate() *Gate {
	return &Gate{
		tags:   make(map[string]struct{}),
		queue:  make([]schema.Command, 0),
		locker: sync.RWMutex{},
	}
}

// ValidateUnsigned admits only the reconciliation engine's command shapes.
func ValidateUnsigned(cmd schema.Command) (schema.Validity, error) {
	if cmd.Signed() || !cmd.Unsigned() {
		return schema.Validity{}, schema.ErrInvalidCommand
	}
	tag, err := unsignedTag(cmd)
	if err != nil {
		return schema.Validity{}, err
	}
	return schema.Validity{
		Priority:  schema.MaxPriority,
		Longevity: 1,
		Propagate: true,
		Tag:       tag,
	}, nil
}

func unsignedTag(cmd schema.Command) (string, error) {
	switch cmd.Kind {
	case schema.CmdCommitVerifiedBinding:
		if cmd.Request == nil {
			return "", schema.ErrInvalidCommand
		}
		domain, err := EncodeBytes([]byte(cmd.Request.Domain))
		if err != nil {
			return "", err
		}
		asset, err := EncodeBytes([]byte(cmd.Request.AssetId))
		if err != nil {
			return "", err
		}
		return assembleTag(schema.TagPrefixVerified, hexutil.Encode(append(domain, asset...))), nil
	case schema.CmdRemoveExpiredRequests:
		return assembleTag(schema.TagPrefixExpired, strconv.FormatUint(cmd.Now, 10)), nil
	case schema.CmdRetractDomains:
		if len(cmd.Domains) == 0 {
			return "", schema.ErrInvalidCommand
		}
		h, _ := blake2b.New256(nil)
		for _, d := range cmd.Domains {
			bz, err := EncodeBytes([]byte(d))
			if err != nil {
				return "", err
			}
			h.Write(bz)
		}
		return assembleTag(schema.TagPrefixRevoked, hexutil.Encode(h.Sum(nil))), nil
	}
	return "", schema.ErrInvalidCommand
}

func assembleTag(prefix, id string) string {
	return prefix + "-" + id
}

func (g *Gate) SubmitUnsigned(cmd schema.Command) (schema.Validity, error) {
	v, err := ValidateUnsigned(cmd)
	if err != nil {
		return v, err
	}

	g.locker.Lock()
	defer g.locker.Unlock()
	if _, ok := g.tags[v.Tag]; ok {
		return v, schema.ErrDuplicateCommand
	}
	g.tags[v.Tag] = struct{}{}
	g.queue = append(g.queue, cmd)
	return v, nil
}

func (g *Gate) SubmitSigned(cmd schema.Command) error {
	if !cmd.Signed() || cmd.Signer.IsZero() {
		return schema.ErrMissingSigner
	}
	if cmd.Unsigned() {
		return fmt.Errorf("%w: %s must be unsigned", schema.ErrInvalidCommand, cmd.Kind)
	}
	switch cmd.Kind {
	case schema.CmdRegisterTLD, schema.CmdRegisterDomain, schema.CmdAmendDomain,
		schema.CmdRevokeDomain, schema.CmdRequestAsset:
	default:
		return schema.ErrInvalidCommand
	}

	g.locker.Lock()
	defer g.locker.Unlock()
	g.queue = append(g.queue, cmd)
	return nil
}

// Drain pops every queued command and expires the accepted tags.
func (g *Gate) Drain() []schema.Command {
	g.locker.Lock()
	defer g.locker.Unlock()
	cmds := g.queue
	g.queue = make([]schema.Command, 0)
	g.tags = make(map[string]struct{})
	return cmds
}

func (g *Gate) Pending() int {
	g.locker.RLock()
	defer g.locker.RUnlock()
	return len(g.queue)
}
