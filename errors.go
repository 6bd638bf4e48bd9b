package assetdiscovery

import (
	"errors"
)

// resolver failures, all of which make a domain fail validation
var (
	ErrNoSeparator      = errors.New("domain_has_no_tld_separator")
	ErrUnknownTLD       = errors.New("tld_not_registered")
	ErrNoBootNodes      = errors.New("chain_spec_has_no_boot_nodes")
	ErrUnexpectedStatus = errors.New("unexpected_status_code")
	ErrInvalidUTF8      = errors.New("invalid_utf8_body")
	ErrEmptyResult      = errors.New("empty_rpc_result")
	ErrInvalidMultiaddr = errors.New("invalid_boot_node_multiaddr")
	ErrRpcError         = errors.New("rpc_error_response")
)
