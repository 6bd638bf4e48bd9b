package schema

import (
	"errors"
)

var (
	ErrNotExist     = errors.New("not_exist_record")
	ErrNotFound     = errors.New("not_found")
	ErrNotImplement = errors.New("method not implement")

	// registry
	ErrDomainNotAvailable = errors.New("domain_not_available")
	ErrDomainNotFound     = errors.New("domain_not_found")
	ErrInvalidOwner       = errors.New("invalid_owner_id")
	ErrTLDNotAvailable    = errors.New("tld_not_available")
	ErrInvalidDomainName  = errors.New("invalid_domain_name")

	// pending requests
	ErrRequestNotFound = errors.New("request_does_not_exist")
	ErrInvalidAssetId  = errors.New("invalid_asset_id")

	// admission
	ErrInvalidCommand   = errors.New("invalid_command")
	ErrDuplicateCommand = errors.New("duplicate_command")
	ErrMissingSigner    = errors.New("missing_signer")
)
