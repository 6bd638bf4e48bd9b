package schema

import (
	"math"
)

type CommandKind string

const (
	// unsigned, only accepted from the reconciliation engine
	CmdCommitVerifiedBinding CommandKind = "commit_verified_binding"
	CmdRemoveExpiredRequests CommandKind = "remove_expired_requests"
	CmdRetractDomains        CommandKind = "retract_domains"

	// signed
	CmdRegisterTLD    CommandKind = "register_tld"
	CmdRegisterDomain CommandKind = "register_domain"
	CmdAmendDomain    CommandKind = "amend_domain"
	CmdRevokeDomain   CommandKind = "revoke_domain"
	CmdRequestAsset   CommandKind = "request_asset"
)

const (
	MaxPriority uint64 = math.MaxUint64

	TagPrefixVerified = "offchain_worker"
	TagPrefixExpired  = "offchain_worker_expired_requests"
	TagPrefixRevoked  = "offchain_worker_cleanup_revoked"
)

// Command is a state transition proposed to the ledger. Kind selects which
// fields are meaningful.
type Command struct {
	Kind   CommandKind `json:"kind"`
	Signer *AccountID  `json:"signer,omitempty"` // nil for unsigned commands

	// commit_verified_binding: RequestKey is the key the pending entry is removed by
	RequestKey string          `json:"requestKey,omitempty"`
	Request    *PendingRequest `json:"request,omitempty"`

	// remove_expired_requests
	Now uint64 `json:"now,omitempty"`

	// retract_domains
	Domains []string `json:"domains,omitempty"`

	// signed registry and binding commands
	Domain     string `json:"domain,omitempty"`
	TLD        string `json:"tld,omitempty"`
	ChainSpec  string `json:"chainSpec,omitempty"`
	Maintainer string `json:"maintainer,omitempty"`
	AssetId    string `json:"assetId,omitempty"`
}

func (c Command) Signed() bool {
	return c.Signer != nil
}

func (c Command) Unsigned() bool {
	switch c.Kind {
	case CmdCommitVerifiedBinding, CmdRemoveExpiredRequests, CmdRetractDomains:
		return true
	}
	return false
}

// Validity is what the admission gate grants an accepted unsigned command.
type Validity struct {
	Priority  uint64 `json:"priority"`
	Longevity uint64 `json:"longevity"` // blocks
	Propagate bool   `json:"propagate"`
	Tag       string `json:"tag"`
}

func NewCommitVerifiedBinding(requestKey string, req PendingRequest) Command {
	return Command{Kind: CmdCommitVerifiedBinding, RequestKey: requestKey, Request: &req}
}

func NewRemoveExpiredRequests(now uint64) Command {
	return Command{Kind: CmdRemoveExpiredRequests, Now: now}
}

func NewRetractDomains(domains []string) Command {
	return Command{Kind: CmdRetractDomains, Domains: domains}
}

func NewRegisterTLD(signer AccountID, tld, chainSpec string) Command {
	return Command{Kind: CmdRegisterTLD, Signer: &signer, TLD: tld, ChainSpec: chainSpec}
}

func NewRegisterDomain(signer AccountID, domain, chainSpec, maintainer string) Command {
	return Command{Kind: CmdRegisterDomain, Signer: &signer, Domain: domain, ChainSpec: chainSpec, Maintainer: maintainer}
}

func NewAmendDomain(signer AccountID, domain, chainSpec, maintainer string) Command {
	return Command{Kind: CmdAmendDomain, Signer: &signer, Domain: domain, ChainSpec: chainSpec, Maintainer: maintainer}
}

func NewRevokeDomain(signer AccountID, domain string) Command {
	return Command{Kind: CmdRevokeDomain, Signer: &signer, Domain: domain}
}

func NewRequestAsset(signer AccountID, domain, assetId string) Command {
	return Command{Kind: CmdRequestAsset, Signer: &signer, Domain: domain, AssetId: assetId}
}
