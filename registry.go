package assetdiscovery

import (
	"errors"
	"strings"

	"github.com/everFinance/assetdiscovery/rawdb"
	"github.com/everFinance/assetdiscovery/schema"
)

const DomainSeparator = "."

func (l *Ledger) registerTLD(c *applyCtx, cmd schema.Command) error {
	if cmd.TLD == "" || strings.Contains(cmd.TLD, DomainSeparator) {
		return schema.ErrInvalidDomainName
	}
	var info schema.TLDInfo
	err := getJSON(c.tx, schema.TLDBucket, cmd.TLD, &info)
	switch {
	case err == nil:
		if info.Owner != *cmd.Signer {
			return schema.ErrTLDNotAvailable
		}
	case !errors.Is(err, schema.ErrNotExist):
		return err
	}

	info = schema.TLDInfo{Owner: *cmd.Signer, ChainSpec: cmd.ChainSpec}
	if err := putJSON(c.tx, schema.TLDBucket, cmd.TLD, info); err != nil {
		return err
	}
	c.emit(schema.Event{Kind: schema.EventTLDRegistered, TLD: cmd.TLD, Actor: cmd.Signer})
	return nil
}

func (l *Ledger) registerDomain(c *applyCtx, cmd schema.Command) error {
	if cmd.Domain == "" {
		return schema.ErrInvalidDomainName
	}
	var info schema.DomainInfo
	err := getJSON(c.tx, schema.DomainBucket, cmd.Domain, &info)
	switch {
	case err == nil:
		if !info.Available {
			return schema.ErrDomainNotAvailable
		}
	case !errors.Is(err, schema.ErrNotExist):
		return err
	}

	if err := l.writeDomain(c, cmd, ""); err != nil {
		return err
	}
	c.emit(schema.Event{Kind: schema.EventDomainRegistered, Domain: cmd.Domain, Actor: cmd.Signer})
	return nil
}

func (l *Ledger) amendDomain(c *applyCtx, cmd schema.Command) error {
	info, err := l.ownedDomain(c, cmd.Domain, *cmd.Signer, false)
	if err != nil {
		return err
	}
	if err := l.writeDomain(c, cmd, info.Maintainer); err != nil {
		return err
	}
	c.emit(schema.Event{Kind: schema.EventDomainAmended, Domain: cmd.Domain, Actor: cmd.Signer})
	return nil
}

func (l *Ledger) revokeDomain(c *applyCtx, cmd schema.Command) error {
	info, err := l.ownedDomain(c, cmd.Domain, *cmd.Signer, true)
	if err != nil {
		return err
	}
	if err := l.unindexMaintainer(c, info.Maintainer, cmd.Domain); err != nil {
		return err
	}
	info.Available = true
	info.ChainSpec = ""
	info.Maintainer = ""
	if err := putJSON(c.tx, schema.DomainBucket, cmd.Domain, info); err != nil {
		return err
	}
	c.emit(schema.Event{Kind: schema.EventDomainRevoked, Domain: cmd.Domain, Actor: cmd.Signer})
	return nil
}

// ownedDomain loads a domain the caller may change. Authorities may only revoke.
func (l *Ledger) ownedDomain(c *applyCtx, domain string, caller schema.AccountID, allowAuthority bool) (*schema.DomainInfo, error) {
	info := &schema.DomainInfo{}
	err := getJSON(c.tx, schema.DomainBucket, domain, info)
	if errors.Is(err, schema.ErrNotExist) {
		return nil, schema.ErrDomainNotFound
	}
	if err != nil {
		return nil, err
	}
	if info.Creator != caller && !(allowAuthority && l.IsAuthority(caller)) {
		return nil, schema.ErrInvalidOwner
	}
	return info, nil
}

// writeDomain stores a claimed record and moves the maintainer index from prevMaintainer.
func (l *Ledger) writeDomain(c *applyCtx, cmd schema.Command, prevMaintainer string) error {
	info := schema.DomainInfo{
		Creator:    *cmd.Signer,
		ChainSpec:  cmd.ChainSpec,
		Maintainer: cmd.Maintainer,
		Available:  false,
	}
	if prevMaintainer != cmd.Maintainer {
		if err := l.unindexMaintainer(c, prevMaintainer, cmd.Domain); err != nil {
			return err
		}
	}
	if err := putJSON(c.tx, schema.DomainBucket, cmd.Domain, info); err != nil {
		return err
	}
	if cmd.Maintainer == "" {
		return nil
	}
	return c.tx.Put(schema.MaintainerBucket, cmd.Maintainer, []byte(cmd.Domain))
}

// unindexMaintainer drops the reverse entry only while it still points at domain.
func (l *Ledger) unindexMaintainer(c *applyCtx, maintainer, domain string) error {
	if maintainer == "" {
		return nil
	}
	bz, err := c.tx.Get(schema.MaintainerBucket, maintainer)
	if errors.Is(err, schema.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if string(bz) != domain {
		return nil
	}
	return c.tx.Delete(schema.MaintainerBucket, maintainer)
}

func (l *Ledger) GetDomain(domain string) (*schema.DomainInfo, error) {
	info := &schema.DomainInfo{}
	err := l.view(schema.DomainBucket, domain, info)
	if errors.Is(err, schema.ErrNotExist) {
		return nil, schema.ErrDomainNotFound
	}
	return info, err
}

func (l *Ledger) GetTLD(tld string) (*schema.TLDInfo, error) {
	info := &schema.TLDInfo{}
	if err := l.view(schema.TLDBucket, tld, info); err != nil {
		return nil, err
	}
	return info, nil
}

// ChainSpecForTLD returns the chain spec url registered for a top-level label.
func (l *Ledger) ChainSpecForTLD(tld string) (string, error) {
	info, err := l.GetTLD(tld)
	if err != nil {
		return "", err
	}
	return info.ChainSpec, nil
}

// MaintainerDomain returns the domain a maintainer node serves.
func (l *Ledger) MaintainerDomain(maintainer string) (domain string, err error) {
	var bz []byte
	err = l.db.View(func(tx rawdb.Tx) error {
		bz, err = tx.Get(schema.MaintainerBucket, maintainer)
		return err
	})
	return string(bz), err
}
