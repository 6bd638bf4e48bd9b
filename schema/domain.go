package schema

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const AccountIDLen = 32

// AccountID is a 32 byte ledger account, hex encoded with a 0x prefix in JSON.
type AccountID [AccountIDLen]byte

func AccountFromHex(s string) (AccountID, error) {
	var a AccountID
	bz, err := hexutil.Decode(s)
	if err != nil {
		return a, err
	}
	if len(bz) != AccountIDLen {
		return a, fmt.Errorf("account id must be %d bytes, got %d", AccountIDLen, len(bz))
	}
	copy(a[:], bz)
	return a, nil
}

func (a AccountID) String() string {
	return hexutil.Encode(a[:])
}

func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(b []byte) error {
	acc, err := AccountFromHex(string(b))
	if err != nil {
		return err
	}
	*a = acc
	return nil
}

// DomainInfo is the registry record of a claimed domain.
type DomainInfo struct {
	Creator AccountID `json:"creator"`
	// url of the chain spec document of the network serving this domain
	ChainSpec string `json:"chainSpec"`
	// node id of the maintainer provided by the network claiming the domain
	Maintainer string `json:"maintainer"`
	Available  bool   `json:"available"`
}

// TLDInfo is the root registry record of a top-level label.
type TLDInfo struct {
	Owner     AccountID `json:"owner"`
	ChainSpec string    `json:"chainSpec"`
}

// ChainSpec is the subset of a network chain spec document the resolver reads.
type ChainSpec struct {
	Id        string   `json:"id"`
	BootNodes []string `json:"bootNodes"`
}
